package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ipChrisLee/drm/internal/config"
	"github.com/ipChrisLee/drm/internal/errs"
	"github.com/ipChrisLee/drm/internal/worker"
)

func newApplyCmd(a *app) *cobra.Command {
	var (
		path   string
		names  []string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Run the jobs of a job file once",
		Long: `Apply loads a job file and runs its jobs once, in file order. The first
failing job stops the run.

Without --config the file is looked up as drm/config.yaml, config.yml or
config.toml in the XDG config directories.`,
		Example: `  # Run every job
  drm apply --config jobs.yaml

  # Preview two of them
  drm apply --job logs --job backups --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(a, cmd, path)
			if err != nil {
				return err
			}

			jobs, err := pickJobs(cfg, names)
			if err != nil {
				return err
			}

			eng := a.engine(cmd)
			for _, j := range jobs {
				task, err := worker.TaskFor(j)
				if err != nil {
					return err
				}
				if dryRun {
					task.DryRun = true
				}
				if task.DryRun {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\n", j.Describe())
				}
				if _, err := eng.Apply(cmd.Context(), task); err != nil {
					return errs.Wrap(err, "job %s", j.Name)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "config", "c", "", "Job file (default: XDG config drm/config.yaml)")
	cmd.Flags().StringSliceVarP(&names, "job", "j", nil, "Only run these jobs (repeatable)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print what would be removed for every job")
	return cmd
}

// loadConfig reads the job file at path, or the default one, and applies
// its logging section.
func loadConfig(a *app, cmd *cobra.Command, path string) (*config.Config, error) {
	if path == "" {
		path = config.DefaultPath()
	}
	if path == "" {
		return nil, errs.Config("no job file given and none found in the XDG config directories")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := a.setupLogging(cmd, cfg.Logging.Level, cfg.Logging.File); err != nil {
		return nil, err
	}
	return cfg, nil
}

// pickJobs returns the named jobs in file order, or all jobs when names is
// empty.
func pickJobs(cfg *config.Config, names []string) ([]config.Job, error) {
	if len(names) == 0 {
		return cfg.Jobs, nil
	}

	want := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := cfg.Lookup(n); !ok {
			return nil, errs.Config("unknown job %q", n)
		}
		want[n] = true
	}

	var out []config.Job
	for _, j := range cfg.Jobs {
		if want[j.Name] {
			out = append(out, j)
		}
	}
	return out, nil
}
