package servererror

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/appkit/core"
	"github.com/dmitrymomot/appkit/exceptions"
	"github.com/dmitrymomot/appkit/pkg/logger"
)

// Option configures a Boundary.
type Option func(*Boundary)

// WithLogger sets the logger used to report failures.
func WithLogger(l *slog.Logger) Option {
	return func(b *Boundary) {
		if l != nil {
			b.log = l
		}
	}
}

// WithRecorder sets the observer notified of every failure.
func WithRecorder(rec core.Recorder) Option {
	return func(b *Boundary) {
		if rec != nil {
			b.recorder = rec
		}
	}
}

// Boundary wraps the entire pipeline.
type Boundary struct {
	next     core.App
	handler  exceptions.Handler
	debug    bool
	log      *slog.Logger
	recorder core.Recorder
}

// New wraps next. handler is the catch-all exception handler and may be nil.
func New(next core.App, handler exceptions.Handler, debug bool, opts ...Option) *Boundary {
	b := &Boundary{
		next:     next,
		handler:  handler,
		debug:    debug,
		log:      slog.Default(),
		recorder: core.NopRecorder{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Serve implements core.App. The returned error is the original failure,
// joined with the catch-all handler's own failure when that handler fails.
func (b *Boundary) Serve(w http.ResponseWriter, r *http.Request) error {
	tw := core.TrackResponse(w)
	err := core.Catch(func() error { return b.next.Serve(tw, r) })
	if err == nil || core.IsCancellation(r, err) {
		return err
	}

	if tw.Started() {
		b.recorder.ServerError(false)
		b.report(r, err, "response already started")
		return err
	}

	if herr := b.respond(tw, r, err); herr != nil {
		if !tw.Started() {
			_ = ErrorResponse().Render(tw, r)
		}
		err = errors.Join(err, herr)
	}

	b.recorder.ServerError(true)
	b.report(r, err, "")
	return err
}

func (b *Boundary) respond(w http.ResponseWriter, r *http.Request, err error) error {
	switch {
	case b.debug:
		return DebugResponse(r, err).Render(w, r)
	case b.handler != nil:
		return exceptions.Invoke(b.handler, w, r, err)
	default:
		return ErrorResponse().Render(w, r)
	}
}

func (b *Boundary) report(r *http.Request, err error, note string) {
	attrs := []slog.Attr{
		logger.Component("server_error"),
		logger.Error(err),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	}
	if note != "" {
		attrs = append(attrs, slog.String("note", note))
	}
	var pe *core.PanicError
	if errors.As(err, &pe) {
		attrs = append(attrs, slog.String("stack", string(pe.Stack)))
	}
	b.log.LogAttrs(r.Context(), slog.LevelError, "unhandled failure", attrs...)
}

// ErrorResponse is the generic failure response. It discloses nothing.
func ErrorResponse() core.Response {
	return core.Text(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// DebugResponse describes err for a developer: an HTML page when the client
// accepts text/html, plain text otherwise.
func DebugResponse(r *http.Request, err error) core.Response {
	report := NewReport(err)
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		return core.TemplWithStatus(http.StatusInternalServerError, report.Page())
	}
	return core.Text(http.StatusInternalServerError, report.String())
}
