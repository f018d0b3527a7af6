package exceptions

import (
	"errors"
	"fmt"
)

var (
	// ErrNilResponse indicates an exception handler returned nil instead of a Response.
	ErrNilResponse = errors.New("exception handler returned nil response")
	// ErrResponseStarted is returned when a handler matched a failure after
	// the response had already started and nothing could be sent.
	ErrResponseStarted = errors.New("caught handled exception, but response already started")
)

// HandlerError reports that a registered handler failed while producing the
// response for Cause. It unwraps to both errors.
type HandlerError struct {
	Key   Key
	Err   error
	Cause error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("exception handler for %s failed: %v (while handling: %v)", e.Key, e.Err, e.Cause)
}

func (e *HandlerError) Unwrap() []error {
	return []error{e.Err, e.Cause}
}
