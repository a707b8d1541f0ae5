package fetcher

import "errors"

var (
	// ErrEmptyKey is returned when a request is made without a cache key
	ErrEmptyKey = errors.New("fetcher: cache key is required")

	// ErrNilConstructor is returned when a cache miss has no constructor to build the resource
	ErrNilConstructor = errors.New("fetcher: constructor is required on cache miss")

	// ErrNilResource is returned when the constructor returns a nil resource
	ErrNilResource = errors.New("fetcher: constructor returned nil resource")

	// ErrNotResource is returned when the value cached at a key does not implement Resource
	ErrNotResource = errors.New("fetcher: cached value is not a resource")

	// ErrFetchPanicked wraps a panic recovered from Resource.Fetch
	ErrFetchPanicked = errors.New("fetcher: fetch panicked")
)
