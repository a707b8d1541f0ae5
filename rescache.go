package rescache

import (
	"log/slog"
	"maps"
	"time"

	"github.com/dmitrymomot/rescache/pkg/cache"
	"github.com/dmitrymomot/rescache/pkg/fetcher"
	"github.com/dmitrymomot/rescache/pkg/logger"
	"github.com/dmitrymomot/rescache/pkg/scheduler"
)

// Cache ties a Store and its fetch Coordinator together.
//
// Both are embedded, so a Cache exposes Put, Get, Register, Unregister,
// Remove, the bulk invalidation family, Request and the rest of their
// methods directly.
type Cache struct {
	*cache.Store
	*fetcher.Coordinator

	logger *slog.Logger
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	scheduler scheduler.Scheduler
	logger    *slog.Logger
	timeouts  map[string]time.Duration
}

// WithScheduler sets the timer source, typically a *scheduler.Virtual in tests.
func WithScheduler(s scheduler.Scheduler) Option {
	return func(o *options) {
		o.scheduler = s
	}
}

// WithLogger sets the logger shared by the store and the coordinator.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithModelTimeouts adds grace periods per model name. They override the
// entries read from Config.TimeoutsFile.
func WithModelTimeouts(timeouts map[string]time.Duration) Option {
	return func(o *options) {
		if o.timeouts == nil {
			o.timeouts = make(map[string]time.Duration, len(timeouts))
		}
		maps.Copy(o.timeouts, timeouts)
	}
}

// New builds a Cache from cfg. Zero values in cfg select the package defaults.
func New(cfg Config, opts ...Option) (*Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{logger: logger.Discard()}
	for _, opt := range opts {
		opt(o)
	}

	timeouts := make(map[string]time.Duration)
	if cfg.TimeoutsFile != "" {
		fromFile, err := LoadTimeouts(cfg.TimeoutsFile)
		if err != nil {
			return nil, err
		}
		maps.Copy(timeouts, fromFile)
	}
	maps.Copy(timeouts, o.timeouts)

	storeOpts := []cache.Option{
		cache.WithScheduler(o.scheduler),
		cache.WithDefaultTimeout(cfg.DefaultTimeout),
		cache.WithModelTimeouts(timeouts),
		cache.WithLogger(o.logger),
	}
	if cfg.EventBuffer > 0 {
		storeOpts = append(storeOpts, cache.WithEventBuffer(cfg.EventBuffer))
	}
	store := cache.New(storeOpts...)
	coord := fetcher.New(store,
		fetcher.WithFetchTimeout(cfg.FetchTimeout),
		fetcher.WithLogger(o.logger),
	)

	o.logger.Debug("cache created",
		logger.Timeout(cfg.DefaultTimeout),
		logger.Count(len(timeouts)),
	)

	return &Cache{Store: store, Coordinator: coord, logger: o.logger}, nil
}

// ResetForTest forgets in-flight fetches and drops every entry without
// teardown, returning the cache to its initial state.
func (c *Cache) ResetForTest() {
	c.Coordinator.Reset()
	c.Store.Reset()
}

// Close stops all eviction timers and closes event subscriptions.
func (c *Cache) Close() error {
	return c.Store.Close()
}
