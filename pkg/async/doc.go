// Package async provides a generic, settle-once Future shared between a single
// producer and any number of waiters.
//
// A Future is created either by NewPromise, which hands the producer an
// explicit SettleFunc, or by Async, which runs a function on its own goroutine
// and settles the Future with its return values. Resolved and Rejected build
// Futures that are settled from the start, which lets callers return the same
// type whether or not any work is outstanding.
//
// # Usage
//
//	f, settle := async.NewPromise[int]()
//	go func() { settle(42, nil) }()
//
//	v, err := f.Await()
//
// Waiters may bound how long they wait with AwaitContext or AwaitWithTimeout.
// Giving up waiting never cancels the producer and never affects other waiters.
//
// # Error Handling
//
// A Future carries whatever error its producer settled it with. Async converts
// a panic into a *PanicError; AwaitWithTimeout returns ErrTimeout.
package async
