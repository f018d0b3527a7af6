// Package core holds the primitives shared by every layer of an appkit pipeline:
// the App invocable, the Response interface with its stock implementations,
// HTTPError, PanicError and the response tracker used by the boundaries.
//
// An App is the error-returning counterpart of http.Handler:
//
//	type App interface {
//		Serve(w http.ResponseWriter, r *http.Request) error
//	}
//
// Returning a non-nil error is how a layer reports a failure to the layers
// wrapping it. Panics are treated as unexpected failures; the boundaries
// recover them into *PanicError values, except http.ErrAbortHandler which is
// always re-panicked so net/http can abort the connection.
//
// Cancellation of the request itself is never turned into a response. Use
// IsCancellation to detect it; a context error from inner work on a live
// request is an ordinary failure.
//
// Responses render themselves:
//
//	func ping(r *http.Request) (core.Response, error) {
//		return core.Text(http.StatusOK, "pong"), nil
//	}
package core
