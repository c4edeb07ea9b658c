// Package mailbox provides a coalescing buffer between job producers
// (cron ticks, directory watchers) and the single worker.
package mailbox

import (
	"context"
	"sync"
)

// Mailbox holds at most one pending item per key. Put on a key that is
// already pending replaces the item in place, so a burst of triggers for
// the same job collapses into a single run. Keys are taken in the order
// they first became pending.
type Mailbox[K comparable, T any] struct {
	mu      sync.Mutex
	pending map[K]T
	order   []K
	ready   chan struct{}
}

// New creates an empty mailbox.
func New[K comparable, T any]() *Mailbox[K, T] {
	return &Mailbox[K, T]{
		pending: make(map[K]T),
		ready:   make(chan struct{}, 1),
	}
}

// Put stores v under k, replacing any pending item for k.
// It never blocks.
func (m *Mailbox[K, T]) Put(k K, v T) {
	m.mu.Lock()
	if _, ok := m.pending[k]; !ok {
		m.order = append(m.order, k)
	}
	m.pending[k] = v
	m.mu.Unlock()

	select {
	case m.ready <- struct{}{}:
	default:
	}
}

// Take blocks until an item is available or ctx is done.
func (m *Mailbox[K, T]) Take(ctx context.Context) (T, bool) {
	for {
		if v, ok := m.TryTake(); ok {
			return v, true
		}
		select {
		case <-ctx.Done():
			var zero T
			return zero, false
		case <-m.ready:
		}
	}
}

// TryTake returns the oldest pending item without blocking.
func (m *Mailbox[K, T]) TryTake() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.order) == 0 {
		var zero T
		return zero, false
	}
	k := m.order[0]
	m.order = m.order[1:]
	v := m.pending[k]
	delete(m.pending, k)
	return v, true
}

// Len reports how many keys are pending.
func (m *Mailbox[K, T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}
