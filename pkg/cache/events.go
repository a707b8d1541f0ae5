package cache

import (
	"context"
	"sync"
)

// EventKind describes what happened to an entry.
type EventKind string

const (
	// EventStored is emitted by every Put.
	EventStored EventKind = "stored"
	// EventRemoved is emitted when an entry is removed explicitly or by bulk invalidation.
	EventRemoved EventKind = "removed"
	// EventExpired is emitted when an eviction timer removes an entry.
	EventExpired EventKind = "expired"
)

// Event reports a change to a single cache entry.
type Event struct {
	Kind EventKind
	Key  string
}

// Subscription receives store events until it is closed.
type Subscription struct {
	ch     chan Event
	done   chan struct{}
	hub    *eventHub
	closed bool
	mu     sync.RWMutex
}

// Events returns the channel events are delivered on. It is closed when the
// subscription closes.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Close stops delivery and closes the events channel. Safe to call multiple times.
func (s *Subscription) Close() error {
	s.hub.unsubscribe(s)
	return nil
}

func (s *Subscription) shut() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.ch)
		close(s.done)
	}
}

// send never blocks: a subscriber with a full buffer misses the event.
func (s *Subscription) send(ev Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return
	}
	select {
	case s.ch <- ev:
	default:
	}
}

// Subscribe returns a subscription to store events. It closes when ctx is
// done, when Close is called on it, or when the store is closed.
func (s *Store) Subscribe(ctx context.Context) *Subscription {
	return s.events.subscribe(ctx)
}

type eventHub struct {
	subs       map[*Subscription]struct{}
	bufferSize int
	closed     bool
	mu         sync.RWMutex
	wg         sync.WaitGroup
}

func newEventHub(bufferSize int) *eventHub {
	return &eventHub{
		subs:       make(map[*Subscription]struct{}),
		bufferSize: max(bufferSize, 1),
	}
}

func (h *eventHub) subscribe(ctx context.Context) *Subscription {
	sub := &Subscription{
		ch:   make(chan Event, h.bufferSize),
		done: make(chan struct{}),
		hub:  h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		sub.shut()
		return sub
	}
	h.subs[sub] = struct{}{}

	if ctx.Done() != nil {
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			select {
			case <-ctx.Done():
				h.unsubscribe(sub)
			case <-sub.done:
			}
		}()
	}

	return sub
}

func (h *eventHub) publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		sub.send(ev)
	}
}

func (h *eventHub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()

	sub.shut()
}

func (h *eventHub) close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	subs := h.subs
	h.subs = make(map[*Subscription]struct{})
	h.mu.Unlock()

	for sub := range subs {
		sub.shut()
	}
	h.wg.Wait()
	return nil
}
