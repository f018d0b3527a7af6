package core

import (
	"context"
	"net/http"
)

// App is a single invocable layer of the dispatch pipeline.
// A non-nil error propagates to the wrapping layer.
type App interface {
	Serve(w http.ResponseWriter, r *http.Request) error
}

// AppFunc adapts an ordinary function to the App interface.
type AppFunc func(w http.ResponseWriter, r *http.Request) error

// Serve calls f(w, r).
func (f AppFunc) Serve(w http.ResponseWriter, r *http.Request) error {
	return f(w, r)
}

// FromHTTP adapts a standard http.Handler to App. The returned App never
// reports an error; panics raised by h propagate unchanged.
func FromHTTP(h http.Handler) App {
	return AppFunc(func(w http.ResponseWriter, r *http.Request) error {
		h.ServeHTTP(w, r)
		return nil
	})
}

type errorSlot struct{ err error }

type errorSlotKey struct{}

// Capture serves r with h and returns the error reported from inside h with
// Report. It lets plain http.Handler trees, such as a chi mux, carry
// errors back to an App.
func Capture(h http.Handler, w http.ResponseWriter, r *http.Request) error {
	slot := &errorSlot{}
	h.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), errorSlotKey{}, slot)))
	return slot.err
}

// Report records err for the nearest enclosing Capture. It reports false
// when r was not served through Capture.
func Report(r *http.Request, err error) bool {
	slot, ok := r.Context().Value(errorSlotKey{}).(*errorSlot)
	if ok {
		slot.err = err
	}
	return ok
}

// Bridge wraps next with a standard func(http.Handler) http.Handler middleware
// and keeps the error returned by next flowing back to the caller.
//
// The middleware is instantiated once, when Bridge is called. The error
// travels through the request context, so middleware that replaces the
// request with r.WithContext still works. If the middleware never calls its
// next handler the returned error is nil.
func Bridge(mw func(http.Handler) http.Handler, next App) App {
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Report(r, next.Serve(w, r))
	}))
	return AppFunc(func(w http.ResponseWriter, r *http.Request) error {
		return Capture(h, w, r)
	})
}
