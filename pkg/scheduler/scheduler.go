package scheduler

import "time"

// Handle cancels a scheduled callback.
// Stop reports whether the call stopped the callback before it ran.
type Handle interface {
	Stop() bool
}

// Scheduler runs a callback once after a delay.
// Implementations must be safe for concurrent use.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Handle
}

// Real schedules callbacks on the runtime timer, each on its own goroutine.
type Real struct{}

// New returns the wall-clock scheduler.
func New() Scheduler {
	return Real{}
}

func (Real) Schedule(delay time.Duration, fn func()) Handle {
	return time.AfterFunc(delay, fn)
}
