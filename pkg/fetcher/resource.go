package fetcher

import (
	"context"
	"fmt"
)

// Resource is a cacheable value that knows how to populate itself.
//
// Fetch loads the resource in place and returns the transport status code.
// A failed fetch returns a non-nil error and, when known, the status code.
// Implementations may also implement cache.Evictable, cache.Configurable and
// StatusSetter.
type Resource interface {
	Fetch(ctx context.Context) (status int, err error)
}

// StatusSetter is implemented by resources that record the status code of
// their last fetch. The coordinator calls it from the fetching goroutine.
type StatusSetter interface {
	SetStatus(status int)
}

// Args are passed to a Constructor when a new resource is needed.
type Args map[string]any

// Constructor creates an empty resource for a cache miss.
// It runs while the coordinator holds its lock and must not call back into it.
type Constructor func(args Args) Resource

// Result is the outcome of a request. Status is zero when no network round
// trip happened: a cache hit or a request made without fetching.
type Result struct {
	Resource Resource
	Status   int
}

// FetchError is returned by a rejected request. It carries the resource that
// failed to fetch and the status code it reported.
type FetchError struct {
	Key      string
	Resource Resource
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetcher: fetch %q failed with status %d: %v", e.Key, e.Status, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
