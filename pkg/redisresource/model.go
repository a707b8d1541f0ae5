package redisresource

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/rescache/pkg/fetcher"
)

// Getter is the part of a redis client used by Model.
// *redis.Client, *redis.ClusterClient and redis.UniversalClient satisfy it.
type Getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Model is a JSON document stored under one redis key.
//
// Fetch reports HTTP-style status codes so redis-backed resources read the
// same as remote ones: 200 on success, 404 for a missing key, 503 when redis
// cannot be reached and 500 for a value that does not decode.
type Model[T any] struct {
	client  Getter
	key     string
	timeout time.Duration

	mu     sync.RWMutex
	data   T
	status int
}


// New creates an empty model reading key. A non-zero timeout overrides the
// cache grace period.
func New[T any](client Getter, key string, timeout time.Duration) *Model[T] {
	return &Model[T]{client: client, key: key, timeout: timeout}
}

// Constructor adapts New to fetcher.Constructor. key derives the redis key
// from the constructor arguments and is prefixed with cfg.KeyPrefix.
func Constructor[T any](client Getter, cfg Config, key func(fetcher.Args) string, timeout time.Duration) fetcher.Constructor {
	return func(args fetcher.Args) fetcher.Resource {
		return New[T](client, cfg.KeyPrefix+key(args), timeout)
	}
}

// Fetch reads and decodes the value at the model key.
func (m *Model[T]) Fetch(ctx context.Context) (int, error) {
	raw, err := m.client.Get(ctx, m.key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return http.StatusNotFound, ErrNotFound
	case err != nil:
		return http.StatusServiceUnavailable, errors.Join(ErrUnavailable, err)
	}

	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		return http.StatusInternalServerError, errors.Join(ErrDecodeValue, err)
	}

	m.mu.Lock()
	m.data = data
	m.mu.Unlock()

	return http.StatusOK, nil
}

// SetStatus records the status of the last fetch.
func (m *Model[T]) SetStatus(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
}

// Status returns the status of the last fetch.
func (m *Model[T]) Status() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Data returns the last decoded value.
func (m *Model[T]) Data() T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data
}

// Key returns the redis key.
func (m *Model[T]) Key() string {
	return m.key
}

// CacheTimeout implements cache.Configurable.
func (m *Model[T]) CacheTimeout() time.Duration {
	return m.timeout
}
