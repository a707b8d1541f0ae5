package async

import (
	"context"
	"sync"
	"time"
)

// Future is the eventual outcome of an operation shared by any number of
// waiters. It settles exactly once; every waiter observes the same value and
// error.
type Future[U any] struct {
	result U
	err    error
	once   sync.Once
	done   chan struct{}
}

// SettleFunc settles the Future it was created with. Only the first call has
// an effect; it reports whether this call was the one that settled it.
type SettleFunc[U any] func(result U, err error) bool

// NewPromise returns an unsettled Future and the function that settles it.
func NewPromise[U any]() (*Future[U], SettleFunc[U]) {
	f := &Future[U]{done: make(chan struct{})}
	return f, f.settle
}

// Resolved returns a Future already settled with result and no error.
func Resolved[U any](result U) *Future[U] {
	f, settle := NewPromise[U]()
	settle(result, nil)
	return f
}

// Rejected returns a Future already settled with result and err.
func Rejected[U any](result U, err error) *Future[U] {
	f, settle := NewPromise[U]()
	settle(result, err)
	return f
}

func (f *Future[U]) settle(result U, err error) bool {
	settled := false
	f.once.Do(func() {
		f.result = result
		f.err = err
		close(f.done)
		settled = true
	})
	return settled
}

// Await blocks until the Future settles.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext blocks until the Future settles or ctx is done. Giving up on
// waiting does not affect the underlying operation or other waiters.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, ctx.Err()
	}
}

// AwaitWithTimeout waits at most timeout and returns ErrTimeout afterwards.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-f.done:
		return f.result, f.err
	case <-t.C:
		var zero U
		return zero, ErrTimeout
	}
}

// Done returns a channel closed once the Future settles.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// IsComplete checks whether the Future has settled without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Async runs fn on its own goroutine and returns its Future.
// A context that is already done settles the Future with ctx.Err() without
// calling fn. A panic in fn settles the Future with a *PanicError.
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f, settle := NewPromise[U]()

	go func() {
		var zero U
		if err := ctx.Err(); err != nil {
			settle(zero, err)
			return
		}

		defer func() {
			if r := recover(); r != nil {
				settle(zero, &PanicError{Value: r})
			}
		}()

		settle(fn(ctx, param))
	}()

	return f
}

// WaitAll waits for every future and returns their results in order.
// The first error encountered in order is returned; results of all futures
// are still collected.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))

	var firstErr error
	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return results, firstErr
}
