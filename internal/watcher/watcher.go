// Package watcher monitors job directories and emits a job whenever a new
// entry appears. Removals never trigger, so a job's own deletions do not
// re-run it.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/ipChrisLee/drm/internal/config"
	"github.com/ipChrisLee/drm/internal/fsprobe"
	"github.com/ipChrisLee/drm/internal/logging"
	"github.com/ipChrisLee/drm/internal/mailbox"
	"github.com/ipChrisLee/drm/internal/worker"
)

const Trigger = "watch"

// Watcher observes the directories of jobs with watch enabled.
type Watcher struct {
	mu sync.RWMutex

	dirs     map[string][]string // cleaned dir -> job names
	interval time.Duration
	mode     string
	debounce time.Duration

	log    logging.Logger
	mb     *mailbox.Mailbox[string, worker.Job]
	reload chan struct{}
}

// New creates a watcher from the watch settings and the job list.
func New(cfg config.WatchConfig, jobs []config.Job, log logging.Logger, mb *mailbox.Mailbox[string, worker.Job]) *Watcher {
	w := &Watcher{
		log:    log,
		mb:     mb,
		mode:   cfg.Mode,
		reload: make(chan struct{}, 1),
	}
	w.apply(cfg, jobs)
	return w
}

// Resolve settles mode "auto" into "fsnotify" or "poll" by probing every
// watched directory, and returns the mode Start will use. The probe writes
// short-lived files into those directories, so call it before anything
// else lists them.
func (w *Watcher) Resolve() string {
	w.mu.RLock()
	mode := w.mode
	w.mu.RUnlock()
	if mode != config.WatchAuto {
		return mode
	}

	mode = config.WatchFsnotify
	for _, dir := range w.Dirs() {
		res := fsprobe.Probe(dir, fsprobe.DefaultTimeout)
		if !res.FsnotifySupported {
			w.log.Warn("fsnotify disabled, polling instead", "dir", dir, "reason", res.Reason)
			mode = config.WatchPoll
			break
		}
	}

	w.mu.Lock()
	w.mode = mode
	w.mu.Unlock()
	return mode
}

// Start runs the watching strategy of the resolved mode and blocks until
// ctx is done. The mode is fixed for the lifetime of the call.
func (w *Watcher) Start(ctx context.Context) error {
	switch mode := w.Resolve(); mode {
	case config.WatchFsnotify:
		return w.StartFsNotify(ctx)

	case config.WatchPoll:
		w.StartPolling(ctx)
		return nil

	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

// Dirs returns the watched directories, sorted.
func (w *Watcher) Dirs() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]string, 0, len(w.dirs))
	for d := range w.dirs {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func (w *Watcher) apply(cfg config.WatchConfig, jobs []config.Job) {
	dirs := make(map[string][]string)
	for _, j := range jobs {
		if !j.Watch {
			continue
		}
		d := filepath.Clean(j.Dir)
		dirs[d] = append(dirs[d], j.Name)
	}

	w.mu.Lock()
	w.dirs = dirs
	w.interval = cfg.PollInterval.Std()
	w.debounce = cfg.DebounceWindow.Std()
	w.mu.Unlock()
}
