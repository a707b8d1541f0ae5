package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/rescache/pkg/async"
	"github.com/dmitrymomot/rescache/pkg/cache"
	"github.com/dmitrymomot/rescache/pkg/logger"
)

// Coordinator deduplicates resource requests against a cache.Store.
//
// At most one fetch per key is in flight at any time; every caller asking
// for the key meanwhile receives the same Future and therefore the same
// resource. Failed fetches remove their entry from the store so a failed
// resource is never served as a hit.
type Coordinator struct {
	mu      sync.Mutex
	store   *cache.Store
	pending map[string]*async.Future[Result]

	fetchTimeout time.Duration
	logger       *slog.Logger
}

// New creates a coordinator over store. It panics if store is nil.
func New(store *cache.Store, opts ...Option) *Coordinator {
	if store == nil {
		panic("fetcher: store must not be nil")
	}

	o := &options{logger: logger.Discard()}
	for _, opt := range opts {
		opt(o)
	}

	return &Coordinator{
		store:        store,
		pending:      make(map[string]*async.Future[Result]),
		fetchTimeout: o.fetchTimeout,
		logger:       o.logger.With(logger.Component("fetcher")),
	}
}

// Request resolves key to a resource.
//
//  1. A fetch already in flight for key is joined: the identical Future is
//     returned and the component is registered right away.
//  2. A cached resource is returned as an already resolved Future with no
//     status, unless WithForceFetch is given.
//  3. Otherwise the resource (the cached one on a forced refetch, a new one
//     from ctor on a miss) is stored before fetching begins, so concurrent
//     requests join it. WithFetch(false) returns it without fetching.
//
// The fetch does not inherit ctx cancellation: it is shared, so one caller
// giving up must not fail the others. Use Future.AwaitContext to stop waiting.
//
// Errors returned directly indicate caller defects; fetch failures are
// reported through the Future as *FetchError.
func (c *Coordinator) Request(ctx context.Context, key string, ctor Constructor, opts ...RequestOption) (*async.Future[Result], error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	o := requestOptions{fetch: true}
	for _, opt := range opts {
		opt(&o)
	}
	owner := o.component
	if o.prefetch {
		owner = ""
	}

	c.mu.Lock()

	if f, ok := c.pending[key]; ok {
		c.store.Register(key, owner)
		c.mu.Unlock()
		c.logger.Debug("joined in-flight fetch", logger.Key(key), logger.Owner(owner))
		return f, nil
	}

	cached, hit := c.store.Get(key)
	var value Resource
	if hit {
		r, ok := cached.(Resource)
		if !ok {
			c.mu.Unlock()
			return nil, ErrNotResource
		}
		if !o.forceFetch {
			c.store.Register(key, owner)
			c.mu.Unlock()
			return async.Resolved(Result{Resource: r}), nil
		}
		value = r
	} else {
		if ctor == nil {
			c.mu.Unlock()
			return nil, ErrNilConstructor
		}
		value = ctor(o.args)
		if value == nil {
			c.mu.Unlock()
			return nil, ErrNilResource
		}
	}

	c.store.Put(key, value, owner)

	if !o.fetch {
		c.mu.Unlock()
		return async.Resolved(Result{Resource: value}), nil
	}

	f, settle := async.NewPromise[Result]()
	c.pending[key] = f
	c.mu.Unlock()

	c.logger.Debug("fetch started", logger.Key(key), logger.Owner(owner))
	go c.run(context.WithoutCancel(ctx), key, value, f, settle)

	return f, nil
}

// Request is one entry of a RequestAll batch.
type Request struct {
	Key         string
	Constructor Constructor
	Options     []RequestOption
}

// RequestAll issues every request and waits for all of them. Results are in
// request order and populated even when some fail; the first failure in
// order is returned. A caller defect in any request aborts before waiting.
func (c *Coordinator) RequestAll(ctx context.Context, reqs ...Request) ([]Result, error) {
	futures := make([]*async.Future[Result], 0, len(reqs))
	for _, r := range reqs {
		f, err := c.Request(ctx, r.Key, r.Constructor, r.Options...)
		if err != nil {
			return nil, err
		}
		futures = append(futures, f)
	}

	all := async.Async(ctx, futures, func(_ context.Context, fs []*async.Future[Result]) ([]Result, error) {
		return async.WaitAll(fs...)
	})
	return all.AwaitContext(ctx)
}

// ExistsInCache reports whether key is cached.
func (c *Coordinator) ExistsInCache(key string) bool {
	return c.store.Has(key)
}

// GetFromCache returns the resource cached at key.
func (c *Coordinator) GetFromCache(key string) (Resource, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	r, ok := v.(Resource)
	return r, ok
}

// InFlight returns the number of fetches currently in flight.
func (c *Coordinator) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Reset forgets every in-flight fetch so following requests start fresh.
// Forgotten fetches still settle their own Future.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.pending)
}

func (c *Coordinator) run(ctx context.Context, key string, value Resource, f *async.Future[Result], settle async.SettleFunc[Result]) {
	if c.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.fetchTimeout)
		defer cancel()
	}

	start := time.Now()
	status, err := fetch(ctx, value)
	res := Result{Resource: value, Status: status}

	if err != nil {
		c.store.Remove(key)
		setStatus(value, status)
		c.forget(key, f)

		c.logger.Warn("fetch failed",
			logger.Key(key),
			logger.Status(status),
			logger.Duration(time.Since(start)),
			logger.Error(err),
		)
		settle(res, &FetchError{Key: key, Resource: value, Status: status, Err: err})
		return
	}

	setStatus(value, status)
	c.forget(key, f)

	c.logger.Debug("fetch completed",
		logger.Key(key),
		logger.Status(status),
		logger.Duration(time.Since(start)),
	)
	settle(res, nil)
}

// forget removes f from the pending table unless it was already replaced.
func (c *Coordinator) forget(key string, f *async.Future[Result]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending[key] == f {
		delete(c.pending, key)
	}
}

func fetch(ctx context.Context, r Resource) (status int, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrFetchPanicked, p)
		}
	}()
	return r.Fetch(ctx)
}

func setStatus(r Resource, status int) {
	if s, ok := r.(StatusSetter); ok {
		s.SetStatus(status)
	}
}
