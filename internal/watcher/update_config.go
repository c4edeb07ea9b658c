package watcher

import (
	"github.com/ipChrisLee/drm/internal/config"
)

// UpdateConfig swaps the watched directories and timings. A running
// watcher picks up the change without restarting. The mode is kept; a
// mode change needs a new Watcher.
func (w *Watcher) UpdateConfig(cfg config.WatchConfig, jobs []config.Job) {
	w.apply(cfg, jobs)
	select {
	case w.reload <- struct{}{}:
	default:
	}
}
