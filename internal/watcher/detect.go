package watcher

import (
	"path/filepath"

	"github.com/ipChrisLee/drm/internal/worker"
)

// fire enqueues every job watching dir.
func (w *Watcher) fire(dir string) {
	w.mu.RLock()
	names := append([]string(nil), w.dirs[filepath.Clean(dir)]...)
	w.mu.RUnlock()

	for _, name := range names {
		w.log.Debug("new entries detected", "dir", dir, "job", name)
		w.mb.Put(name, worker.Job{Name: name, Trigger: Trigger})
	}
}
