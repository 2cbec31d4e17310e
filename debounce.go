package vscroll

import (
	"sync"
	"time"
)

// DefaultPersistDelay is the quiet period before a scroll offset is written.
const DefaultPersistDelay = 150 * time.Millisecond

// Debouncer coalesces bursts of triggers into one trailing callback.
// Calling Trigger again before the delay elapses cancels the pending callback
// and schedules a new one.
type Debouncer struct {
	scheduler Scheduler
	duration  time.Duration

	mu    sync.Mutex
	timer Timer
	seq   uint64
}

// NewDebouncer returns a debouncer. A zero duration selects
// DefaultPersistDelay and a nil scheduler selects SystemScheduler.
func NewDebouncer(scheduler Scheduler, duration time.Duration) *Debouncer {
	if duration <= 0 {
		duration = DefaultPersistDelay
	}
	if scheduler == nil {
		scheduler = SystemScheduler()
	}
	return &Debouncer{
		scheduler: scheduler,
		duration:  duration,
	}
}

// Trigger schedules callback to run once the debouncer has been quiet for its
// duration.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.scheduler.AfterFunc(d.duration, func() {
		shouldRun := func() bool {
			d.mu.Lock()
			defer d.mu.Unlock()
			// A timer that already fired can still race a newer Trigger or Cancel.
			if seq != d.seq {
				return false
			}
			d.timer = nil
			return true
		}()
		if !shouldRun {
			return
		}
		callback()
	})
}

// Cancel discards any pending callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a callback is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Duration returns the debounce duration.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}
