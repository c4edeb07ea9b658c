// Package worker runs configured jobs one at a time as triggers arrive.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ipChrisLee/drm/internal/config"
	"github.com/ipChrisLee/drm/internal/errs"
	"github.com/ipChrisLee/drm/internal/logging"
	"github.com/ipChrisLee/drm/internal/mailbox"
	"github.com/ipChrisLee/drm/internal/retention"
)

// Worker takes jobs from the mailbox and applies retention for each.
type Worker struct {
	mu        sync.RWMutex
	jobs      map[string]config.Job
	log       logging.Logger
	retention Retention
	mb        *mailbox.Mailbox[string, Job]
}

// New creates a worker for the given job definitions.
func New(jobs []config.Job, log logging.Logger, r Retention, mb *mailbox.Mailbox[string, Job]) *Worker {
	log.Debug("creating worker", "jobs", len(jobs))
	w := &Worker{
		log:       log,
		retention: r,
		mb:        mb,
	}
	w.UpdateConfig(jobs)
	return w
}

// Start processes jobs until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info("starting worker")
	for {
		job, ok := w.mb.Take(ctx)
		if !ok {
			w.log.Info("worker stopped")
			return
		}
		if err := w.Handle(ctx, job); err != nil {
			w.log.Error("job failed", "job", job.Name, "trigger", job.Trigger, "error", err)
		}
	}
}

// Handle runs one job synchronously.
func (w *Worker) Handle(ctx context.Context, job Job) error {
	w.mu.RLock()
	def, ok := w.jobs[job.Name]
	w.mu.RUnlock()
	if !ok {
		return errs.Config("unknown job %q", job.Name)
	}

	task, err := TaskFor(def)
	if err != nil {
		return err
	}

	start := time.Now()
	rep, err := w.retention.Apply(ctx, task)
	if err != nil {
		return fmt.Errorf("job %s: %w", job.Name, err)
	}
	w.log.Info("job done",
		"job", job.Name,
		"trigger", job.Trigger,
		"run", rep.RunID,
		"removed", len(rep.Removed),
		"took", time.Since(start))
	return nil
}

// UpdateConfig replaces the known job definitions.
func (w *Worker) UpdateConfig(jobs []config.Job) {
	byName := make(map[string]config.Job, len(jobs))
	for _, j := range jobs {
		byName[j.Name] = j
	}
	w.mu.Lock()
	w.jobs = byName
	w.mu.Unlock()
}

// TaskFor turns a job definition into a retention task.
func TaskFor(j config.Job) (retention.Task, error) {
	r, err := j.Rule()
	if err != nil {
		return retention.Task{}, err
	}
	return retention.Task{
		Name:    j.Name,
		Dir:     j.Dir,
		Rule:    r,
		Reverse: j.Reverse,
		DryRun:  j.DryRun,
	}, nil
}
