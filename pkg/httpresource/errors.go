package httpresource

import "errors"

var (
	// ErrUnexpectedStatus is returned when the server answers with a 4xx or 5xx status
	ErrUnexpectedStatus = errors.New("httpresource: unexpected response status")

	// ErrDecodeBody is returned when the response body is not valid JSON for the model
	ErrDecodeBody = errors.New("httpresource: failed to decode response body")

	// ErrRequest is returned when the request cannot be built or sent
	ErrRequest = errors.New("httpresource: request failed")
)
