package s3resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrymomot/rescache/pkg/fetcher"
)

// Model is a JSON document stored as one S3 object.
type Model[T any] struct {
	client  ObjectGetter
	bucket  string
	key     string
	timeout time.Duration

	mu           sync.RWMutex
	data         T
	status       int
	etag         string
	lastModified time.Time
}

// New creates an empty model for the object at bucket/key. A non-zero
// timeout overrides the cache grace period.
func New[T any](client ObjectGetter, bucket, key string, timeout time.Duration) *Model[T] {
	return &Model[T]{client: client, bucket: bucket, key: key, timeout: timeout}
}

// Constructor adapts New to fetcher.Constructor. key derives the object key
// from the constructor arguments.
func Constructor[T any](client ObjectGetter, bucket string, key func(fetcher.Args) string, timeout time.Duration) fetcher.Constructor {
	return func(args fetcher.Args) fetcher.Resource {
		return New[T](client, bucket, key(args), timeout)
	}
}

// Fetch downloads and decodes the object. Failures carry the HTTP status S3
// reported, or the closest match when the SDK did not expose one.
func (m *Model[T]) Fetch(ctx context.Context) (int, error) {
	out, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(m.key),
	})
	if err != nil {
		return classify(err)
	}
	defer out.Body.Close()

	var data T
	if err := json.NewDecoder(out.Body).Decode(&data); err != nil {
		return http.StatusInternalServerError, errors.Join(ErrDecodeObject, err)
	}

	m.mu.Lock()
	m.data = data
	m.etag = aws.ToString(out.ETag)
	m.lastModified = aws.ToTime(out.LastModified)
	m.mu.Unlock()

	return http.StatusOK, nil
}

func classify(err error) (int, error) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return 0, err
	}

	status := 0
	var re interface{ HTTPStatusCode() int }
	if errors.As(err, &re) {
		status = re.HTTPStatusCode()
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return http.StatusNotFound, fmt.Errorf("%w: %w", ErrObjectNotFound, err)
	}
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return http.StatusNotFound, fmt.Errorf("%w: %w", ErrBucketNotFound, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return http.StatusNotFound, fmt.Errorf("%w: %w", ErrObjectNotFound, err)
		case "NoSuchBucket":
			return http.StatusNotFound, fmt.Errorf("%w: %w", ErrBucketNotFound, err)
		case "AccessDenied":
			return http.StatusForbidden, fmt.Errorf("%w: %w", ErrAccessDenied, err)
		case "SlowDown", "ServiceUnavailable":
			return http.StatusServiceUnavailable, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
		}
		if status == 0 {
			status = http.StatusBadGateway
		}
		return status, err
	}

	if status == 0 {
		status = http.StatusServiceUnavailable
	}
	return status, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
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

// Data returns the last decoded document.
func (m *Model[T]) Data() T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data
}

// ETag returns the entity tag of the last downloaded object.
func (m *Model[T]) ETag() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.etag
}

// LastModified returns the modification time of the last downloaded object.
func (m *Model[T]) LastModified() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastModified
}

// CacheTimeout implements cache.Configurable.
func (m *Model[T]) CacheTimeout() time.Duration {
	return m.timeout
}
