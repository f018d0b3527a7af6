package exceptions

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/appkit/core"
	"github.com/dmitrymomot/appkit/pkg/logger"
)

// Option configures a Boundary.
type Option func(*Boundary)

// WithLogger sets the logger used to report handled failures.
func WithLogger(l *slog.Logger) Option {
	return func(b *Boundary) {
		if l != nil {
			b.log = l
		}
	}
}

// WithRecorder sets the observer notified of handled failures.
func WithRecorder(rec core.Recorder) Option {
	return func(b *Boundary) {
		if rec != nil {
			b.recorder = rec
		}
	}
}

// Boundary is the innermost boundary of a pipeline. It wraps the router and
// turns failures into responses using the specific handlers. Failures without
// a matching handler are returned unchanged for the outer layers.
type Boundary struct {
	next       core.App
	debug      bool
	status     map[int]Handler
	categories []entry
	log        *slog.Logger
	recorder   core.Recorder
}

// New wraps next. The core.HTTPError category gets a default handler that
// answers with the error's status; entries in handlers override it.
// Catch-all keys in handlers are ignored, see Partition.
func New(next core.App, handlers *Registry, debug bool, opts ...Option) *Boundary {
	b := &Boundary{
		next:     next,
		debug:    debug,
		status:   make(map[int]Handler),
		log:      slog.Default(),
		recorder: core.NopRecorder{},
	}
	for _, opt := range opts {
		opt(b)
	}

	merged := NewRegistry()
	merged.Set(CategoryOf[core.HTTPError](), HTTPErrorHandler)
	for key, h := range handlers.All() {
		merged.Set(key, h)
	}

	for key, h := range merged.All() {
		switch {
		case key.IsCatchAll():
		case key.kind == kindStatus:
			b.status[key.status] = h
		default:
			b.categories = append(b.categories, entry{key: key, handler: h})
		}
	}
	return b
}

// Serve implements core.App.
func (b *Boundary) Serve(w http.ResponseWriter, r *http.Request) error {
	tw := core.TrackResponse(w)
	err := core.Catch(func() error { return b.next.Serve(tw, r) })
	if err == nil || core.IsCancellation(r, err) {
		return err
	}

	key, h, ok := b.Lookup(err)
	if !ok {
		return err
	}
	if tw.Started() {
		return errors.Join(ErrResponseStarted, err)
	}

	if herr := Invoke(h, tw, r, err); herr != nil {
		return &HandlerError{Key: key, Err: herr, Cause: err}
	}

	b.recorder.ExceptionHandled(key.String())
	level := slog.LevelDebug
	if b.debug {
		level = slog.LevelInfo
	}
	b.log.LogAttrs(r.Context(), level, "exception handled",
		logger.Component("exception_boundary"),
		logger.Error(err),
		slog.String("handler_key", key.String()),
		slog.String("path", r.URL.Path),
	)
	return nil
}

// Lookup resolves the handler for err without invoking it.
func (b *Boundary) Lookup(err error) (Key, Handler, bool) {
	var httpErr core.HTTPError
	if errors.As(err, &httpErr) {
		if h, ok := b.status[httpErr.Code]; ok {
			return StatusKey(httpErr.Code), h, true
		}
	}

	var (
		found   entry
		matched bool
	)
	walk(err, func(node error) bool {
		found, matched = b.match(node)
		return matched
	})
	return found.key, found.handler, matched
}

// match checks one node of the error tree, most specific key kind first.
func (b *Boundary) match(node error) (entry, bool) {
	for rank := range rankCount {
		for _, e := range b.categories {
			if e.key.rank() == rank && e.key.matches(node) {
				return e, true
			}
		}
	}
	return entry{}, false
}

// walk visits err and everything it wraps, depth first, until visit returns true.
func walk(err error, visit func(error) bool) bool {
	for err != nil {
		if visit(err) {
			return true
		}
		switch x := err.(type) {
		case interface{ Unwrap() error }:
			err = x.Unwrap()
		case interface{ Unwrap() []error }:
			for _, e := range x.Unwrap() {
				if walk(e, visit) {
					return true
				}
			}
			return false
		default:
			return false
		}
	}
	return false
}

// Invoke runs h and renders its response. Panics, nil responses and render
// failures are all reported as the returned error.
func Invoke(h Handler, w http.ResponseWriter, r *http.Request, err error) error {
	return core.Catch(func() error {
		resp := h(r, err)
		if resp == nil {
			return ErrNilResponse
		}
		return resp.Render(w, r)
	})
}

// HTTPErrorHandler is the default handler for core.HTTPError: a plain text
// status response, or an empty body for statuses that forbid one.
func HTTPErrorHandler(_ *http.Request, err error) core.Response {
	var httpErr core.HTTPError
	if !errors.As(err, &httpErr) {
		httpErr = core.ErrInternalServerError
	}
	var resp core.Response
	switch httpErr.Code {
	case http.StatusNoContent, http.StatusNotModified:
		resp = core.EmptyWithStatus(httpErr.Code)
	default:
		resp = core.Text(httpErr.Code, httpErr.Message())
	}
	return core.WithHeaders(resp, httpErr.Headers)
}
