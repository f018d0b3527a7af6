package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/appkit/core"
	"github.com/dmitrymomot/appkit/pkg/logger"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// Liveness returns an endpoint that always answers 200 "ALIVE".
func Liveness() func(*http.Request) (core.Response, error) {
	return func(*http.Request) (core.Response, error) {
		return core.Text(http.StatusOK, "ALIVE"), nil
	}
}

// Readiness returns an endpoint that runs every check and answers 200
// "READY". The first failing check is logged and surfaces as
// core.ErrServiceUnavailable for the exception handlers to render.
func Readiness(log *slog.Logger, checks ...Check) func(*http.Request) (core.Response, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return func(r *http.Request) (core.Response, error) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed", logger.Error(err))
				return nil, core.ErrServiceUnavailable
			}
		}
		return core.Text(http.StatusOK, "READY"), nil
	}
}
