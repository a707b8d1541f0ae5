// Package cache provides a reference-counted, key-addressed resource store
// with deferred eviction.
//
// Entries are kept alive by owners: opaque identities (typically UI
// components or request scopes) that registered interest in a key. When the
// last owner goes away the entry is not removed immediately; it is scheduled
// for removal after a grace period so rapid unregister/register cycles keep
// the value warm. Registering again before the deadline cancels the removal.
//
// # Key Features
//
//   - Owner manifest: Unregister(owner) releases every key an owner holds
//     without scanning the store
//   - Injectable timer source (scheduler.Scheduler) for deterministic tests
//   - Per-value (Configurable), per-model (WithModelTimeouts) and default
//     grace periods
//   - Teardown hook (Evictable) called exactly once when a value leaves the
//     store, whether by Remove, bulk invalidation or timer
//   - Bulk removal by resource name with exact-or-separator matching, see
//     package cachekey
//   - Non-blocking event stream of stored/removed/expired entries
//
// # Usage
//
//	store := cache.New(cache.WithDefaultTimeout(2 * time.Minute))
//
//	owner := cache.NewOwnerID()
//	store.Put("user~userId=zorah", user, owner)
//
//	v, ok := store.Get("user~userId=zorah")
//
//	// Component unmounts: the entry is evicted two minutes later unless
//	// another owner registers first.
//	store.Unregister(owner)
//
//	// Drop every cached "user" entry, but not "users".
//	store.RemoveAllWithModel("user")
//
// # Timeouts
//
// The grace period for an entry is resolved when its eviction is scheduled:
//
//  1. the value's CacheTimeout(), if it implements Configurable and returns > 0
//  2. the per-model timeout for cachekey.Name(key), if configured
//  3. the store default (DefaultTimeout unless overridden)
//
// # Thread Safety
//
// All operations are safe for concurrent use. Teardown hooks and event
// delivery run after the store's internal lock is released, so a Teardown
// may call back into the store.
//
// # Error Handling
//
// Operations never fail on missing keys or redundant calls; they are meant to
// be called from teardown paths that may race.
package cache
