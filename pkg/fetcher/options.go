package fetcher

import (
	"log/slog"
	"maps"
	"time"

	"github.com/dmitrymomot/rescache/pkg/cache"
)

// Option configures a Coordinator.
type Option func(*options)

type options struct {
	logger       *slog.Logger
	fetchTimeout time.Duration
}

// WithLogger sets the logger for the coordinator.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithFetchTimeout bounds every fetch. Zero means no bound.
func WithFetchTimeout(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.fetchTimeout = d
		}
	}
}

// RequestOption configures a single Request.
type RequestOption func(*requestOptions)

type requestOptions struct {
	component  cache.OwnerID
	fetch      bool
	forceFetch bool
	prefetch   bool
	args       Args
}

// WithComponent registers owner for the requested key.
func WithComponent(owner cache.OwnerID) RequestOption {
	return func(o *requestOptions) {
		o.component = owner
	}
}

// WithFetch controls whether a miss triggers a fetch. With false the new
// resource is cached unpopulated and returned immediately.
func WithFetch(fetch bool) RequestOption {
	return func(o *requestOptions) {
		o.fetch = fetch
	}
}

// WithForceFetch refetches a cached resource in place.
func WithForceFetch() RequestOption {
	return func(o *requestOptions) {
		o.forceFetch = true
	}
}

// WithPrefetch warms the cache without taking ownership: any component is
// ignored and the entry stays eviction-eligible.
func WithPrefetch() RequestOption {
	return func(o *requestOptions) {
		o.prefetch = true
	}
}

// WithArgs passes constructor arguments for a miss. Later calls merge over
// earlier ones.
func WithArgs(args Args) RequestOption {
	return func(o *requestOptions) {
		if o.args == nil {
			o.args = make(Args, len(args))
		}
		maps.Copy(o.args, args)
	}
}
