package requestid

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/dmitrymomot/appkit/core"
)

const (
	Header      = "X-Request-ID"
	maxIDLength = 128
)

var validID = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Option configures the request id middleware.
type Option func(*settings)

type settings struct {
	header   string
	generate func() string
}

// WithHeader reads and echoes the id using a header other than X-Request-ID.
func WithHeader(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.header = name
		}
	}
}

// WithGenerator replaces the UUIDv4 generator.
func WithGenerator(fn func() string) Option {
	return func(s *settings) {
		if fn != nil {
			s.generate = fn
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{header: Header, generate: uuid.NewString}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// assign picks the inbound id when it is well formed, otherwise a fresh one,
// and echoes it on the response.
func (s settings) assign(w http.ResponseWriter, r *http.Request) *http.Request {
	id := r.Header.Get(s.header)
	if !isValidRequestID(id) {
		id = s.generate()
	}
	w.Header().Set(s.header, id)
	return r.WithContext(WithContext(r.Context(), id))
}

// New wraps next so every request carries an id. Use it with appkit.Use:
//
//	app.AddMiddleware(appkit.Use(requestid.New))
func New(next core.App, opts ...Option) core.App {
	s := newSettings(opts)
	return core.AppFunc(func(w http.ResponseWriter, r *http.Request) error {
		return next.Serve(w, s.assign(w, r))
	})
}

// Middleware is the net/http form of New.
func Middleware(next http.Handler) http.Handler {
	s := newSettings(nil)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, s.assign(w, r))
	})
}

func isValidRequestID(id string) bool {
	if len(id) == 0 || len(id) > maxIDLength {
		return false
	}
	return validID.MatchString(id)
}
