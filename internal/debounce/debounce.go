// Package debounce delays an action until its trigger has been quiet for a
// fixed period, collapsing rapid successive triggers into one.
package debounce

import (
	"sync"
	"time"
)

// Debouncer schedules at most one pending function at a time. Each Schedule
// supersedes the previous pending call; only the last one within a quiet
// window fires.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Schedule arms the timer for fn, cancelling any previously pending call.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels the pending call, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
