package cli

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ipChrisLee/drm/internal/config"
	"github.com/ipChrisLee/drm/internal/errs"
	"github.com/ipChrisLee/drm/internal/logging"
	"github.com/ipChrisLee/drm/internal/mailbox"
	"github.com/ipChrisLee/drm/internal/scheduler"
	"github.com/ipChrisLee/drm/internal/watcher"
	"github.com/ipChrisLee/drm/internal/worker"
)

func newScheduleCmd(a *app) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run jobs on their cron schedules and directory changes",
		Long: `Schedule keeps running and applies each job whenever its cron spec fires
or, for jobs with watch enabled, whenever a new entry shows up in its
directory. Jobs run one at a time; triggers for a job that is already
waiting collapse into one run.

SIGHUP reloads the job file. SIGINT and SIGTERM stop the daemon.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = config.DefaultPath()
			}
			cfg, err := loadConfig(a, cmd, path)
			if err != nil {
				return err
			}
			return runSchedule(cmd.Context(), a, cmd, path, cfg)
		},
	}

	cmd.Flags().StringVarP(&path, "config", "c", "", "Job file (default: XDG config drm/config.yaml)")
	return cmd
}

// daemon is one running "drm schedule".
type daemon struct {
	a    *app
	cmd  *cobra.Command
	path string
	mode string
	log  logging.Logger

	mb     *mailbox.Mailbox[string, worker.Job]
	worker *worker.Worker
	sched  *scheduler.Scheduler
	watch  *watcher.Watcher
}

func newDaemon(a *app, cmd *cobra.Command, path string, cfg *config.Config) (*daemon, error) {
	d := &daemon{
		a:    a,
		cmd:  cmd,
		path: path,
		mode: cfg.Watch.Mode,
		log:  logging.New("schedule"),
		// Mailbox for triggered jobs
		mb: mailbox.New[string, worker.Job](),
	}
	warnIdle(d.log, cfg.Jobs)

	d.worker = worker.New(cfg.Jobs, logging.New("worker"), a.engine(cmd), d.mb)

	d.sched = scheduler.New(logging.New("scheduler"), d.mb)
	if err := d.sched.UpdateConfig(cfg.Jobs); err != nil {
		return nil, err
	}

	d.watch = watcher.New(cfg.Watch, cfg.Jobs, logging.New("watcher"), d.mb)
	return d, nil
}

func runSchedule(ctx context.Context, a *app, cmd *cobra.Command, path string, cfg *config.Config) error {
	d, err := newDaemon(a, cmd, path, cfg)
	if err != nil {
		return err
	}
	return d.run(ctx)
}

func (d *daemon) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Probe files must be gone before any job lists the directories.
	d.log.Info("watching", "mode", d.watch.Resolve(), "dirs", len(d.watch.Dirs()))

	var wg sync.WaitGroup
	watchErr := make(chan error, 1)

	wg.Add(3)
	go func() { defer wg.Done(); d.worker.Start(ctx) }()
	go func() { defer wg.Done(); d.sched.Start(ctx) }()
	go func() {
		defer wg.Done()
		if err := d.watch.Start(ctx); err != nil {
			watchErr <- errs.Config("starting watcher: %v", err)
			cancel()
		}
	}()

	// Hot reload on SIGHUP
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			d.log.Info("exit complete")
			select {
			case err := <-watchErr:
				return err
			default:
				return nil
			}

		case <-hup:
			if err := d.reload(); err != nil {
				d.log.Error("config reload failed", "error", err)
			}
		}
	}
}

// reload rereads the job file and applies it to logging and every
// trigger. A file that fails to load or validate changes nothing.
func (d *daemon) reload() error {
	cfg, err := config.Load(d.path)
	if err != nil {
		return err
	}
	if err := d.a.setupLogging(d.cmd, cfg.Logging.Level, cfg.Logging.File); err != nil {
		return err
	}
	if err := d.sched.UpdateConfig(cfg.Jobs); err != nil {
		return err
	}
	d.worker.UpdateConfig(cfg.Jobs)
	d.watch.UpdateConfig(cfg.Watch, cfg.Jobs)
	if cfg.Watch.Mode != d.mode {
		d.log.Warn("watch mode changes take effect after a restart", "running", d.mode, "configured", cfg.Watch.Mode)
	}
	warnIdle(d.log, cfg.Jobs)
	d.log.Info("config reloaded", "jobs", len(cfg.Jobs), "scheduled", d.sched.Len(), "watched", len(d.watch.Dirs()))
	return nil
}

// warnIdle logs jobs that no trigger will ever run.
func warnIdle(logg logging.Logger, jobs []config.Job) {
	for _, j := range jobs {
		if j.Cron == "" && !j.Watch {
			logg.Warn("job has neither cron nor watch and will not run", "job", j.Name)
		}
	}
}
