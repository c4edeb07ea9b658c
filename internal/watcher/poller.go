package watcher

import (
	"context"
	"time"
)

// StartPolling rescans the watched directories on a fixed interval.
func (w *Watcher) StartPolling(ctx context.Context) {
	w.mu.RLock()
	interval := w.interval
	w.mu.RUnlock()

	s := newScanner()
	w.poll(s)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.reload:
			w.mu.RLock()
			interval = w.interval
			w.mu.RUnlock()
			ticker.Reset(interval)
			w.poll(s)
		case <-ticker.C:
			w.poll(s)
		}
	}
}

func (w *Watcher) poll(s *scanner) {
	dirs := w.Dirs()
	s.forget(dirs)
	for _, dir := range dirs {
		changed, err := s.scan(dir)
		if err != nil {
			w.log.Warn("scan failed", "dir", dir, "error", err)
			continue
		}
		if changed {
			w.fire(dir)
		}
	}
}
