package async

import (
	"errors"
	"fmt"
)

var ErrTimeout = errors.New("async: operation timed out waiting for future completion")

// PanicError carries the value recovered from a panicking async function.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("async: function panicked: %v", e.Value)
}
