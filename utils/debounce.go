package utils

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of Trigger calls into a single trailing-edge
// invocation of fn once the window elapses with no further triggers.
type Debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	fn      func()
	timer   *time.Timer
	stopped bool
}

// NewDebouncer creates a Debouncer that runs fn after the given window.
func NewDebouncer(window time.Duration, fn func()) *Debouncer {
	return &Debouncer{window: window, fn: fn}
}

// Trigger arms (or re-arms) the countdown. Rapid successive triggers
// within the window collapse into one invocation of fn.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fn)
}

// Flush runs fn immediately if an invocation is pending.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	pending := d.timer != nil && d.timer.Stop()
	d.timer = nil
	stopped := d.stopped
	d.mu.Unlock()
	if pending && !stopped {
		d.fn()
	}
}

// Stop cancels any pending invocation; later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
