package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// StartFsNotify fires jobs when fsnotify reports a new entry in a watched
// directory. Bursts within the debounce window collapse into one trigger.
func (w *Watcher) StartFsNotify(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	resync := func() {
		want := make(map[string]bool)
		for _, d := range w.Dirs() {
			want[d] = true
			if watched[d] {
				continue
			}
			if err := watcher.Add(d); err != nil {
				w.log.Error("cannot watch directory", "dir", d, "error", err)
				continue
			}
			watched[d] = true
		}
		for d := range watched {
			if !want[d] {
				_ = watcher.Remove(d)
				delete(watched, d)
			}
		}
	}
	resync()

	deb := newDebouncer(w.fire)
	defer deb.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-w.reload:
			resync()

		case ev, ok := <-watcher.Events:
			if !ok {
				w.log.Error("events channel closed")
				return nil
			}

			w.log.Debug("event", "name", ev.Name, "op", ev.Op.String())

			// Renames into the directory also arrive as Create.
			if !ev.Has(fsnotify.Create) {
				continue
			}
			dir := filepath.Dir(ev.Name)
			if !watched[dir] {
				continue
			}

			w.mu.RLock()
			window := w.debounce
			w.mu.RUnlock()
			deb.touch(dir, window)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error("fsnotify error", "error", err)
		}
	}
}

// debouncer calls fn(key) once a key has been quiet for its window.
type debouncer struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	fn     func(string)
}

func newDebouncer(fn func(string)) *debouncer {
	return &debouncer{timers: make(map[string]*time.Timer), fn: fn}
}

func (d *debouncer) touch(key string, window time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	d.timers[key] = time.AfterFunc(window, func() {
		d.mu.Lock()
		delete(d.timers, key)
		d.mu.Unlock()
		d.fn(key)
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for k, t := range d.timers {
		t.Stop()
		delete(d.timers, k)
	}
}
