// Package scheduler abstracts one-shot delayed callbacks so that code relying
// on timers can run against the wall clock in production and a virtual clock
// in tests.
//
// # Usage
//
//	s := scheduler.New()
//	h := s.Schedule(150*time.Second, func() { /* evict */ })
//	h.Stop() // cancel if still pending
//
// Deterministic tests drive a Virtual clock explicitly:
//
//	clock := scheduler.NewVirtual()
//	clock.Schedule(time.Second, fn)
//	clock.Advance(999 * time.Millisecond) // fn not called
//	clock.Advance(time.Millisecond)       // fn called
package scheduler
