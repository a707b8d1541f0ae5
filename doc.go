// Package rescache is a reference-counted resource cache with request
// deduplication.
//
// Consumers check out resources by cache key. A resource is fetched at most
// once per key at a time, shared by every concurrent requester, and evicted
// once no owner needs it any more, after a grace period that absorbs rapid
// register and unregister cycles.
//
// The package wires the building blocks together:
//
//   - cache.Store holds entries, owners and eviction timers
//   - fetcher.Coordinator deduplicates fetches against the store
//   - cachekey builds and matches keys
//   - scheduler supplies real or virtual time
//
// Basic Usage:
//
//	cfg, err := rescache.LoadConfig()
//	if err != nil {
//		return err
//	}
//	rc, err := rescache.New(cfg, rescache.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	defer rc.Close()
//
//	owner := cache.NewOwnerID()
//	key := cachekey.Build("user", map[string]any{"userId": "zorah"})
//	f, err := rc.Request(ctx, key, newUser, fetcher.WithComponent(owner))
//	if err != nil {
//		return err
//	}
//	res, err := f.AwaitContext(ctx)
//
//	// When the consumer goes away:
//	rc.Unregister(owner)
//
// Bulk invalidation:
//
//	rc.RemoveAllWithModel("user")         // user and user~...
//	rc.RemoveAllExcept("session")         // everything but session keys
//	rc.Invalidate([]string{"planets"})    // removes exactly these keys
//
// Configuration:
//
// Config is read from RESCACHE_DEFAULT_TIMEOUT, RESCACHE_FETCH_TIMEOUT,
// RESCACHE_EVENT_BUFFER and RESCACHE_TIMEOUTS_FILE. The timeouts file is YAML
// mapping model names to durations:
//
//	user: 30s
//	planets: 10m
package rescache
