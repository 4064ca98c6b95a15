package cache

import (
	"errors"
	"fmt"
)

// Sentinel errors for cache operations.
var (
	ErrNilFunc    = errors.New("cache: function is nil")
	ErrNilFuture  = errors.New("cache: async function returned a nil future")
	ErrInvalidTTL = errors.New("cache: ttl must not be negative")
	ErrPanic      = errors.New("cache: panic in memoized function")
)

// PanicError reports a panic recovered from an underlying function. It is
// delivered to the calling goroutine and to every joined caller.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%v: %v", ErrPanic, e.Value)
}

// Unwrap returns ErrPanic, or the panic value itself when it is an error.
func (e *PanicError) Unwrap() []error {
	if err, ok := e.Value.(error); ok {
		return []error{ErrPanic, err}
	}
	return []error{ErrPanic}
}
