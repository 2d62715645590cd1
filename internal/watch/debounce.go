// Package watch provides debounced, single-flight incremental rebundling
// driven by filesystem notifications.
package watch

import (
	"sync"
	"time"
)

// Debouncer schedules a single callback after a fixed window, refusing to
// schedule a second one while the first is still pending. Unlike a
// reset-on-every-signal debounce, a burst of triggers only ever starts
// one timer, anchored to the burst's first signal rather than its last.
type Debouncer struct {
	mu     sync.Mutex
	timer  *time.Timer
	window time.Duration
	fire   func()
}

// NewDebouncer returns a Debouncer that calls fire after window once
// triggered.
func NewDebouncer(window time.Duration, fire func()) *Debouncer {
	return &Debouncer{window: window, fire: fire}
}

// TriggerIfIdle schedules fire after the debounce window, but only if no
// timer is already pending. It reports whether it scheduled one.
func (d *Debouncer) TriggerIfIdle() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		return false
	}
	d.timer = time.AfterFunc(d.window, d.fireAndClear)
	return true
}

// TriggerNow schedules fire on the next tick, bypassing the debounce
// window — used for the initial bundle right after the Coordinator starts.
func (d *Debouncer) TriggerNow() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(0, d.fireAndClear)
}

func (d *Debouncer) fireAndClear() {
	d.mu.Lock()
	d.timer = nil
	d.mu.Unlock()
	d.fire()
}

// Stop cancels any pending timer.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
