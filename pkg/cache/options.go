package cache

import (
	"log/slog"
	"maps"
	"time"

	"github.com/dmitrymomot/rescache/pkg/scheduler"
)

const defaultEventBuffer = 64

// Option configures a Store.
type Option func(*options)

type options struct {
	scheduler      scheduler.Scheduler
	defaultTimeout time.Duration
	modelTimeouts  map[string]time.Duration
	logger         *slog.Logger
	eventBuffer    int
}

// WithScheduler sets the timer source used for deferred eviction.
func WithScheduler(s scheduler.Scheduler) Option {
	return func(o *options) {
		if s != nil {
			o.scheduler = s
		}
	}
}

// WithDefaultTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithDefaultTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.defaultTimeout = d
		}
	}
}

// WithModelTimeouts sets grace periods per resource name, as recovered from
// keys by cachekey.Name. A value's own CacheTimeout still takes precedence.
func WithModelTimeouts(timeouts map[string]time.Duration) Option {
	return func(o *options) {
		if len(timeouts) > 0 {
			o.modelTimeouts = maps.Clone(timeouts)
		}
	}
}

// WithLogger sets the logger for the store.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithEventBuffer sets the per-subscription event buffer size. Minimum is 1.
func WithEventBuffer(n int) Option {
	return func(o *options) {
		o.eventBuffer = max(n, 1)
	}
}

// InvalidateOption configures Store.Invalidate.
type InvalidateOption func(*invalidateOptions)

type invalidateOptions struct {
	except bool
}

// WithExcept makes Invalidate keep the given names and remove everything else.
func WithExcept() InvalidateOption {
	return func(o *invalidateOptions) {
		o.except = true
	}
}
