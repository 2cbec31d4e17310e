package vscroll

import "time"

// Timer is a handle to a pending callback. *time.Timer satisfies it.
type Timer interface {
	Stop() bool
}

// Scheduler runs callbacks after a delay. Widgets use it for debounced writes
// and animation frames so they can be driven by an event loop or a test clock.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
	Now() time.Time
}

type systemScheduler struct{}

// SystemScheduler returns a Scheduler backed by the time package. Callbacks
// run on timer goroutines; use an [Application] as the scheduler when widget
// state must only be touched from the event loop.
func SystemScheduler() Scheduler {
	return systemScheduler{}
}

func (systemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (systemScheduler) Now() time.Time {
	return time.Now()
}
