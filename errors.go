package rescache

import "errors"

var (
	// ErrInvalidConfig is returned when a Config holds negative durations or sizes
	ErrInvalidConfig = errors.New("rescache: invalid configuration")

	// ErrInvalidTimeout is returned when a timeouts document holds a malformed or non-positive duration
	ErrInvalidTimeout = errors.New("rescache: invalid model timeout")

	// ErrLoadingTimeouts is returned when the timeouts file cannot be read or parsed
	ErrLoadingTimeouts = errors.New("rescache: failed to load model timeouts")
)
