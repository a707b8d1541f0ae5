package s3resource

import "errors"

var (
	ErrInvalidConfig      = errors.New("s3resource: bucket and region are required")
	ErrFailedToLoadConfig = errors.New("s3resource: failed to load AWS config")

	// ErrObjectNotFound is returned by Fetch when the object key does not exist
	ErrObjectNotFound = errors.New("s3resource: object not found")
	// ErrBucketNotFound is returned by Fetch when the bucket does not exist
	ErrBucketNotFound = errors.New("s3resource: bucket not found")
	// ErrAccessDenied is returned by Fetch when the credentials may not read the object
	ErrAccessDenied = errors.New("s3resource: access denied")
	// ErrServiceUnavailable is returned by Fetch when S3 throttles or is unreachable
	ErrServiceUnavailable = errors.New("s3resource: service unavailable")
	// ErrDecodeObject is returned by Fetch when the object body is not valid JSON for the model
	ErrDecodeObject = errors.New("s3resource: failed to decode object")
)
