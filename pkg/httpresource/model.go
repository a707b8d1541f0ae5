package httpresource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/dmitrymomot/rescache/pkg/fetcher"
)

// Model is a JSON document served at one API path. It implements
// fetcher.Resource, fetcher.StatusSetter, cache.Evictable and
// cache.Configurable.
type Model[T any] struct {
	client  *Client
	path    string
	timeout time.Duration

	mu        sync.RWMutex
	data      T
	status    int
	fetchedAt time.Time
	listeners map[int]func(T)
	nextID    int
}

// ModelOption configures a Model.
type ModelOption func(*modelOptions)

type modelOptions struct {
	timeout time.Duration
}

// WithCacheTimeout overrides the cache grace period for the model.
func WithCacheTimeout(d time.Duration) ModelOption {
	return func(o *modelOptions) {
		o.timeout = d
	}
}

// New creates an empty model for path.
func New[T any](client *Client, path string, opts ...ModelOption) *Model[T] {
	var o modelOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Model[T]{
		client:    client,
		path:      path,
		timeout:   o.timeout,
		listeners: make(map[int]func(T)),
	}
}

// Constructor adapts New to fetcher.Constructor. path derives the request
// path from the constructor arguments.
func Constructor[T any](client *Client, path func(fetcher.Args) string, opts ...ModelOption) fetcher.Constructor {
	return func(args fetcher.Args) fetcher.Resource {
		return New[T](client, path(args), opts...)
	}
}

// Fetch GETs the model path and decodes the JSON body.
func (m *Model[T]) Fetch(ctx context.Context) (int, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, m.client.url(m.path), nil)
	if err != nil {
		return 0, errors.Join(ErrRequest, err)
	}
	for key, values := range m.client.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.rc.Do(req)
	if err != nil {
		return 0, errors.Join(ErrRequest, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, fmt.Errorf("%w: GET %s: %s", ErrUnexpectedStatus, m.path, resp.Status)
	}

	var data T
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return resp.StatusCode, errors.Join(ErrDecodeBody, err)
	}

	m.mu.Lock()
	m.data = data
	m.fetchedAt = time.Now()
	listeners := make([]func(T), 0, len(m.listeners))
	for _, fn := range m.listeners {
		listeners = append(listeners, fn)
	}
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(data)
	}

	return resp.StatusCode, nil
}

// SetStatus records the status of the last fetch.
func (m *Model[T]) SetStatus(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
}

// Status returns the status of the last fetch, zero before any fetch.
func (m *Model[T]) Status() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Data returns the last successfully decoded document.
func (m *Model[T]) Data() T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data
}

// FetchedAt returns when the document was last decoded.
func (m *Model[T]) FetchedAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fetchedAt
}

// Path returns the request path.
func (m *Model[T]) Path() string {
	return m.path
}

// OnChange registers fn to run after every successful fetch. The returned
// function removes it.
func (m *Model[T]) OnChange(fn func(T)) (remove func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.listeners[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// Teardown drops every change listener.
func (m *Model[T]) Teardown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.listeners)
}

// Listeners returns the number of registered change listeners.
func (m *Model[T]) Listeners() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.listeners)
}

// CacheTimeout implements cache.Configurable. Zero defers to the store.
func (m *Model[T]) CacheTimeout() time.Duration {
	return m.timeout
}
