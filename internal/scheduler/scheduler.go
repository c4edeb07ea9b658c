// Package scheduler turns the cron specs of configured jobs into worker
// jobs.
package scheduler

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/ipChrisLee/drm/internal/config"
	"github.com/ipChrisLee/drm/internal/errs"
	"github.com/ipChrisLee/drm/internal/logging"
	"github.com/ipChrisLee/drm/internal/mailbox"
	"github.com/ipChrisLee/drm/internal/worker"
)

const Trigger = "cron"

// Scheduler owns one cron entry per job that has a cron spec.
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	entries map[string]cron.EntryID
	log     logging.Logger
	mb      *mailbox.Mailbox[string, worker.Job]
}

func New(log logging.Logger, mb *mailbox.Mailbox[string, worker.Job]) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(cronLogger{log})),
		entries: make(map[string]cron.EntryID),
		log:     log,
		mb:      mb,
	}
}

// UpdateConfig replaces every cron entry with the ones jobs describe.
func (s *Scheduler) UpdateConfig(jobs []config.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, id := range s.entries {
		s.cron.Remove(id)
		delete(s.entries, name)
	}

	for _, j := range jobs {
		if j.Cron == "" {
			continue
		}
		name := j.Name
		id, err := s.cron.AddFunc(j.Cron, func() {
			s.mb.Put(name, worker.Job{Name: name, Trigger: Trigger})
		})
		if err != nil {
			return errs.Config("job %q has invalid cron %q: %v", j.Name, j.Cron, err)
		}
		s.entries[name] = id
		s.log.Debug("scheduled job", "job", name, "cron", j.Cron)
	}
	return nil
}

// Len reports how many jobs are scheduled.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Start runs the cron loop until ctx is done, then waits for running
// triggers to finish.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("starting scheduler", "jobs", s.Len())
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// cronLogger routes cron's own logging into ours. Its chatty info events
// go to debug.
type cronLogger struct {
	log logging.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.log.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.log.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
