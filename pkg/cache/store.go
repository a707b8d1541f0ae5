package cache

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/rescache/pkg/cachekey"
	"github.com/dmitrymomot/rescache/pkg/logger"
	"github.com/dmitrymomot/rescache/pkg/scheduler"
)

// DefaultTimeout is the grace period between an entry losing its last owner
// and its removal.
const DefaultTimeout = 150 * time.Second

// OwnerID identifies a party whose interest keeps an entry alive.
type OwnerID string

// NewOwnerID returns a random owner identity for callers without a natural one.
func NewOwnerID() OwnerID {
	return OwnerID(uuid.NewString())
}

// Evictable is implemented by values holding subscriptions or other resources
// that must be released when the value leaves the cache. Teardown is called
// exactly once per removal.
type Evictable interface {
	Teardown()
}

// Configurable is implemented by values that override the eviction grace
// period. Non-positive durations fall back to the store's timeouts.
type Configurable interface {
	CacheTimeout() time.Duration
}

type entry struct {
	value  any
	owners map[OwnerID]struct{}
	timer  scheduler.Handle
	// gen identifies the currently scheduled timer; zero when none is scheduled.
	gen uint64
}

// removed is a value taken out of the store whose teardown is still due.
type removed struct {
	key   string
	value any
}

// Store is a reference-counted, key-addressed cache with deferred eviction.
//
// An entry with at least one owner is never evicted. Once its last owner is
// gone the entry is scheduled for removal after its grace period; registering
// an owner before then cancels the removal.
//
// All methods are safe for concurrent use. Teardown hooks and events run after
// the store's lock is released.
type Store struct {
	mu       sync.Mutex
	entries  map[string]*entry
	manifest map[OwnerID]map[string]struct{}
	gen      uint64
	closed   bool

	scheduler      scheduler.Scheduler
	defaultTimeout time.Duration
	modelTimeouts  map[string]time.Duration
	logger         *slog.Logger
	events         *eventHub
}

// New creates an empty store. Without options it uses the wall clock and
// DefaultTimeout.
func New(opts ...Option) *Store {
	o := &options{
		scheduler:      scheduler.New(),
		defaultTimeout: DefaultTimeout,
		logger:         logger.Discard(),
		eventBuffer:    defaultEventBuffer,
	}
	for _, opt := range opts {
		opt(o)
	}

	return &Store{
		entries:        make(map[string]*entry),
		manifest:       make(map[OwnerID]map[string]struct{}),
		scheduler:      o.scheduler,
		defaultTimeout: o.defaultTimeout,
		modelTimeouts:  o.modelTimeouts,
		logger:         o.logger.With(logger.Component("cache")),
		events:         newEventHub(o.eventBuffer),
	}
}

// Put stores value at key, replacing any previous value.
//
// Given owners are registered and cancel a pending eviction. Owners already
// registered for key are kept. If the entry ends up without owners it is
// scheduled for eviction, restarting any earlier countdown.
func (s *Store) Put(key string, value any, owners ...OwnerID) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		e = &entry{owners: make(map[OwnerID]struct{})}
		s.entries[key] = e
	}
	e.value = value

	for _, owner := range owners {
		if owner != "" {
			s.registerLocked(key, e, owner)
		}
	}
	if len(e.owners) == 0 {
		s.scheduleLocked(key, e)
	}
	s.mu.Unlock()

	s.events.publish(Event{Kind: EventStored, Key: key})
}

// Get returns the value stored at key. It has no side effects.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		return e.value, true
	}
	return nil, false
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Register adds owner to key's owners and cancels its pending eviction.
// Missing keys are ignored.
func (s *Store) Register(key string, owner OwnerID) {
	if owner == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		s.registerLocked(key, e, owner)
	}
}

// Unregister removes owner from the given keys, or from every key it owns
// when none are given. Entries left without owners are scheduled for eviction
// before Unregister returns. Values are not torn down here.
func (s *Store) Unregister(owner OwnerID, keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned := s.manifest[owner]
	if len(keys) == 0 {
		keys = make([]string, 0, len(owned))
		for key := range owned {
			keys = append(keys, key)
		}
	}

	for _, key := range keys {
		delete(owned, key)

		e, ok := s.entries[key]
		if !ok {
			continue
		}
		if _, registered := e.owners[owner]; !registered {
			continue
		}
		delete(e.owners, owner)
		if len(e.owners) == 0 {
			s.scheduleLocked(key, e)
		}
	}

	if owned != nil && len(owned) == 0 {
		delete(s.manifest, owner)
	}
}

// Remove deletes key immediately, cancelling any pending eviction, and tears
// the value down. Removing a missing key is a no-op.
func (s *Store) Remove(key string) {
	s.mu.Lock()
	r, ok := s.removeLocked(key)
	s.mu.Unlock()

	if ok {
		s.logger.Debug("cache entry removed", logger.Key(key))
		s.finish(EventRemoved, r)
	}
}

// RemoveAllWithModel removes every entry belonging to the resource name:
// keys equal to name or starting with name followed by cachekey.Separator.
func (s *Store) RemoveAllWithModel(name string) {
	n := s.removeWhere(func(key string) bool {
		return cachekey.Matches(key, name)
	})
	s.logger.Debug("cache model removed", logger.Event(name), logger.Count(n))
}

// RemoveAllExcept removes every entry whose key belongs to none of the
// names in allowList.
func (s *Store) RemoveAllExcept(allowList ...string) {
	n := s.removeWhere(func(key string) bool {
		return !cachekey.MatchesAny(key, allowList...)
	})
	s.logger.Debug("cache entries removed except allow list", logger.Keys(allowList), logger.Count(n))
}

// Invalidate is a convenience over the removal operations. Without keys it
// does nothing. With WithExcept the keys are an allow list handed to
// RemoveAllExcept; otherwise each key is removed.
func (s *Store) Invalidate(keys []string, opts ...InvalidateOption) {
	if len(keys) == 0 {
		return
	}

	var o invalidateOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.except {
		s.RemoveAllExcept(keys...)
		return
	}
	for _, key := range keys {
		s.Remove(key)
	}
}

// Reset clears every entry, owner and pending timer without tearing values
// down or emitting events. It exists to isolate tests.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		s.cancelLocked(e)
	}
	clear(s.entries)
	clear(s.manifest)
}

// Close cancels every pending eviction and closes all event subscriptions.
// Entries stay readable but are no longer evicted by timer.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	for _, e := range s.entries {
		s.cancelLocked(e)
	}
	s.mu.Unlock()

	return s.events.close()
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	s.mu.Unlock()

	slices.Sort(keys)
	return keys
}

// Owners returns the owners of key in sorted order.
func (s *Store) Owners(key string) []OwnerID {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	owners := make([]OwnerID, 0, len(e.owners))
	for owner := range e.owners {
		owners = append(owners, owner)
	}
	s.mu.Unlock()

	slices.Sort(owners)
	return owners
}

// Must be called with lock held.
func (s *Store) registerLocked(key string, e *entry, owner OwnerID) {
	s.cancelLocked(e)
	e.owners[owner] = struct{}{}

	owned, ok := s.manifest[owner]
	if !ok {
		owned = make(map[string]struct{})
		s.manifest[owner] = owned
	}
	owned[key] = struct{}{}
}

// Must be called with lock held.
func (s *Store) scheduleLocked(key string, e *entry) {
	s.cancelLocked(e)
	if s.closed {
		return
	}

	timeout := s.timeoutFor(key, e.value)
	s.gen++
	gen := s.gen
	e.gen = gen
	e.timer = s.scheduler.Schedule(timeout, func() { s.expire(key, gen) })

	s.logger.Debug("cache entry scheduled for eviction", logger.Key(key), logger.Timeout(timeout))
}

// Must be called with lock held.
func (s *Store) cancelLocked(e *entry) {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen = 0
}

// Must be called with lock held.
func (s *Store) removeLocked(key string) (removed, bool) {
	e, ok := s.entries[key]
	if !ok {
		return removed{}, false
	}

	s.cancelLocked(e)
	for owner := range e.owners {
		if owned, ok := s.manifest[owner]; ok {
			delete(owned, key)
			if len(owned) == 0 {
				delete(s.manifest, owner)
			}
		}
	}
	delete(s.entries, key)

	return removed{key: key, value: e.value}, true
}

func (s *Store) removeWhere(match func(key string) bool) int {
	s.mu.Lock()
	var out []removed
	for key := range s.entries {
		if !match(key) {
			continue
		}
		if r, ok := s.removeLocked(key); ok {
			out = append(out, r)
		}
	}
	s.mu.Unlock()

	for _, r := range out {
		s.finish(EventRemoved, r)
	}
	return len(out)
}

// expire is the timer callback. It only acts if gen still identifies the
// entry's scheduled timer and the entry still has no owners.
func (s *Store) expire(key string, gen uint64) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok || e.gen != gen || len(e.owners) > 0 {
		s.mu.Unlock()
		return
	}
	e.timer = nil
	r, _ := s.removeLocked(key)
	s.mu.Unlock()

	s.logger.Debug("cache entry expired", logger.Key(key))
	s.finish(EventExpired, r)
}

func (s *Store) finish(kind EventKind, r removed) {
	if ev, ok := r.value.(Evictable); ok {
		ev.Teardown()
	}
	s.events.publish(Event{Kind: kind, Key: r.key})
}

func (s *Store) timeoutFor(key string, value any) time.Duration {
	if c, ok := value.(Configurable); ok {
		if d := c.CacheTimeout(); d > 0 {
			return d
		}
	}
	if d, ok := s.modelTimeouts[cachekey.Name(key)]; ok && d > 0 {
		return d
	}
	return s.defaultTimeout
}
