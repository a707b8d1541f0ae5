package scheduler

import (
	"sync"
	"time"
)

// Virtual is a manually advanced clock for deterministic tests.
// Callbacks never run on their own; Advance fires every callback whose
// deadline falls within the advanced window, in deadline order, on the
// calling goroutine.
type Virtual struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers map[*virtualTimer]struct{}
}

type virtualTimer struct {
	clock    *Virtual
	deadline time.Duration
	seq      uint64
	fn       func()
}

// NewVirtual returns a virtual clock positioned at zero.
func NewVirtual() *Virtual {
	return &Virtual{timers: make(map[*virtualTimer]struct{})}
}

func (v *Virtual) Schedule(delay time.Duration, fn func()) Handle {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.seq++
	t := &virtualTimer{
		clock:    v,
		deadline: v.now + max(delay, 0),
		seq:      v.seq,
		fn:       fn,
	}
	v.timers[t] = struct{}{}
	return t
}

// Advance moves the clock forward by d and fires due callbacks.
// Callbacks scheduled while advancing fire too if they fall due in the window.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now + max(d, 0)
	v.mu.Unlock()

	for {
		v.mu.Lock()
		next := v.nextDueLocked(target)
		if next == nil {
			v.now = target
			v.mu.Unlock()
			return
		}
		delete(v.timers, next)
		v.now = next.deadline
		v.mu.Unlock()

		next.fn()
	}
}

// Now returns the time elapsed since the clock was created.
func (v *Virtual) Now() time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// Pending returns the number of callbacks that have not fired or been stopped.
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.timers)
}

// Must be called with lock held.
func (v *Virtual) nextDueLocked(target time.Duration) *virtualTimer {
	var next *virtualTimer
	for t := range v.timers {
		if t.deadline > target {
			continue
		}
		if next == nil || t.deadline < next.deadline ||
			(t.deadline == next.deadline && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func (t *virtualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if _, ok := t.clock.timers[t]; !ok {
		return false
	}
	delete(t.clock.timers, t)
	return true
}
