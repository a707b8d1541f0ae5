// Package fetcher coordinates resource fetches against a cache.Store.
//
// A Coordinator guarantees single flight per cache key: concurrent requests
// for a key that is being fetched share one Future and one resource. Cached
// resources are returned without a round trip, and a resource whose fetch
// fails is dropped from the cache before its waiters are rejected.
//
// # Usage
//
//	store := cache.New()
//	coord := fetcher.New(store, fetcher.WithFetchTimeout(10*time.Second))
//
//	key := cachekey.Build("user", map[string]any{"userId": "zorah"})
//	f, err := coord.Request(ctx, key, newUser, fetcher.WithComponent(owner))
//	if err != nil {
//		return err // empty key or missing constructor
//	}
//	res, err := f.AwaitContext(ctx)
//	var fe *fetcher.FetchError
//	if errors.As(err, &fe) {
//		log.Printf("status %d", fe.Status)
//	}
//
// Resources implement Resource and, optionally, StatusSetter,
// cache.Evictable and cache.Configurable.
//
// # Options
//
// WithFetch(false) caches a fresh resource without fetching it.
// WithForceFetch refetches a cached resource in place, keeping its identity.
// WithPrefetch warms the cache without taking ownership.
package fetcher
