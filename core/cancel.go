package core

import (
	"errors"
	"net/http"
)

// IsCancellation reports whether err is the request's own cancellation: the
// request context is done and err carries its cause. A timeout of some inner
// operation on a live request is an ordinary failure.
func IsCancellation(r *http.Request, err error) bool {
	if err == nil {
		return false
	}
	ctxErr := r.Context().Err()
	return ctxErr != nil && errors.Is(err, ctxErr)
}
