package redisresource

import "errors"

var (
	ErrFailedToParseRedisConnString = errors.New("redisresource: failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redisresource: redis did not become ready within the given time period")
	ErrHealthcheckFailed            = errors.New("redisresource: redis healthcheck failed")

	// ErrNotFound is returned by Fetch when the key does not exist
	ErrNotFound = errors.New("redisresource: key not found")
	// ErrUnavailable is returned by Fetch when redis cannot be reached
	ErrUnavailable = errors.New("redisresource: redis unavailable")
	// ErrDecodeValue is returned by Fetch when the stored value is not valid JSON for the model
	ErrDecodeValue = errors.New("redisresource: failed to decode value")
)
