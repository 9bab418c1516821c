// Package debounce coalesces bursts of calls per key into a single deferred
// call that runs after a quiet period.
package debounce

import (
	"sync"
	"time"
)

type task struct {
	timer *time.Timer
	fn    func()
}

// Debouncer schedules at most one pending task per key. A new Trigger for a
// key replaces the pending task and restarts the quiet period for that key
// only; other keys are unaffected.
type Debouncer[K comparable] struct {
	delay time.Duration

	mu      sync.Mutex
	pending map[K]*task
	stopped bool
}

func New[K comparable](delay time.Duration) *Debouncer[K] {
	return &Debouncer[K]{delay: delay, pending: make(map[K]*task)}
}

// Trigger schedules fn to run after the quiet period, dropping any task still
// pending for key. After Stop, Trigger is a no-op.
func (d *Debouncer[K]) Trigger(key K, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if t, ok := d.pending[key]; ok {
		t.timer.Stop()
	}

	t := &task{fn: fn}
	t.timer = time.AfterFunc(d.delay, func() { d.fire(key, t) })
	d.pending[key] = t
}

// fire runs t unless it was replaced, cancelled or flushed in the meantime.
func (d *Debouncer[K]) fire(key K, t *task) {
	d.mu.Lock()
	if cur, ok := d.pending[key]; !ok || cur != t {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.mu.Unlock()

	t.fn()
}

// Cancel drops the pending task for key and reports whether there was one.
func (d *Debouncer[K]) Cancel(key K) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	t, ok := d.pending[key]
	if !ok {
		return false
	}
	t.timer.Stop()
	delete(d.pending, key)
	return true
}

// Flush runs every pending task now, on the calling goroutine.
func (d *Debouncer[K]) Flush() {
	d.mu.Lock()
	tasks := d.drain()
	d.mu.Unlock()

	for _, t := range tasks {
		t.fn()
	}
}

// Close rejects new tasks and then runs every pending one on the calling
// goroutine. No task triggered concurrently with Close is lost: it either
// runs here or is rejected.
func (d *Debouncer[K]) Close() {
	d.mu.Lock()
	d.stopped = true
	tasks := d.drain()
	d.mu.Unlock()

	for _, t := range tasks {
		t.fn()
	}
}

// drain must be called with d.mu held.
func (d *Debouncer[K]) drain() []*task {
	tasks := make([]*task, 0, len(d.pending))
	for k, t := range d.pending {
		t.timer.Stop()
		tasks = append(tasks, t)
		delete(d.pending, k)
	}
	return tasks
}

// Pending returns the number of scheduled tasks.
func (d *Debouncer[K]) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Stop drops all pending tasks without running them and rejects new ones.
func (d *Debouncer[K]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for k, t := range d.pending {
		t.timer.Stop()
		delete(d.pending, k)
	}
	d.stopped = true
}
