// Package cli wires the drm commands.
package cli

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ipChrisLee/drm/internal/errs"
	"github.com/ipChrisLee/drm/internal/fs"
	"github.com/ipChrisLee/drm/internal/logging"
	"github.com/ipChrisLee/drm/internal/output"
	"github.com/ipChrisLee/drm/internal/retention"
	"github.com/ipChrisLee/drm/internal/rule"
	"github.com/ipChrisLee/drm/internal/version"
)

const rangeHelp = `Range of entries to remove, e.g. '(-3d:)[-5:]'.
'(start:end)' is a modification time window relative to now. Bounds are
'/'-joined terms with units Y M d h m s, and an empty bound is unbounded.
'[start:end]' slices the matches sorted oldest first, negative indices
count from the newest.`

// app carries state shared by the commands of one invocation.
type app struct {
	verbosity int
	logFile   string
	logCloser io.Closer

	// fs is swapped in tests.
	fs fs.FS
}

// setupLogging (re)configures the global logger. level and file come from
// a job file and apply only when the flags did not set them.
func (a *app) setupLogging(cmd *cobra.Command, level, file string) error {
	if a.logFile != "" {
		file = a.logFile
	}
	if a.verbosity > 0 {
		level = ""
	}
	closer, err := logging.Setup(logging.Options{
		Verbosity: a.verbosity,
		Level:     level,
		File:      file,
		Console:   cmd.ErrOrStderr(),
	})
	if err != nil {
		return errs.Config("%v", err)
	}
	a.closeLog()
	a.logCloser = closer
	return nil
}

func (a *app) closeLog() {
	if a.logCloser != nil {
		_ = a.logCloser.Close()
		a.logCloser = nil
	}
}

func (a *app) engine(cmd *cobra.Command) *retention.Engine {
	return retention.New(a.fs, logging.New("retention"), output.NewPrinter(cmd.OutOrStdout()))
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	initTemplateFormatting()

	var (
		rangeExpr string
		dir       string
		reverse   bool
		dryRun    bool
	)

	rootCmd := &cobra.Command{
		Use:   "drm",
		Short: "Remove directory entries by modification time and position",
		Long: `drm removes the immediate children of a directory that fall inside a
modification time window and an index range over the matches.`,
		Example: `  # Keep only the five newest entries
  drm -d ./backups -r '(:)[:-5]'

  # Remove everything older than a month, showing what would go
  drm -d /var/log/app -r '(:-1M)[:]' --dry-run

  # Keep the three newest entries of the last week, remove the rest
  drm -d ./snapshots -r '(-7d:)[-3:]' -R`,
		Version: version.Version,
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setupLogging(cmd, "", ""); err != nil {
				return err
			}
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("range") {
				return errs.Argument("-r/--range is required.")
			}
			if !cmd.Flags().Changed("dir") {
				return errs.Argument("-d/--dir is required.")
			}

			r, err := rule.Parse(rangeExpr)
			if err != nil {
				return err
			}
			_, err = a.engine(cmd).Apply(cmd.Context(), retention.Task{
				Name:    "cli",
				Dir:     dir,
				Rule:    r,
				Reverse: reverse,
				DryRun:  dryRun,
			})
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.Flags().StringVarP(&rangeExpr, "range", "r", "", rangeHelp)
	rootCmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory whose entries are removed")
	rootCmd.Flags().BoolVarP(&reverse, "reverse", "R", false, "Keep the selected range and remove the rest of the window")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print what would be removed without removing it")

	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", "Also write JSON logs to this file")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errs.Argument("%v", err)
	})
	rootCmd.SetUsageTemplate(usageTemplate)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddCommand(newApplyCmd(a))
	rootCmd.AddCommand(newScheduleCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs drm with the process arguments. Errors that did not come
// from drm itself, such as unknown commands, are reported as argument
// errors.
func Execute(ctx context.Context) error {
	a := &app{}
	defer a.closeLog()
	return normalize(newRootCmd(a).ExecuteContext(ctx))
}

func normalize(err error) error {
	if err == nil {
		return nil
	}
	var e *errs.Error
	if errors.As(err, &e) || errors.Is(err, context.Canceled) {
		return err
	}
	return errs.Argument("%v", err)
}
