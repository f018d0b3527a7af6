package appkit

import (
	"errors"

	"github.com/dmitrymomot/appkit/router"
)

var (
	// ErrConfiguration is returned by New for invalid construction, such as
	// combining a lifespan with startup/shutdown hooks.
	ErrConfiguration = errors.New("invalid application configuration")

	// ErrLifecycle is returned when configuration is changed after the
	// pipeline has been compiled.
	ErrLifecycle = errors.New("cannot change the application after it has started")

	// ErrLookup is returned by URLPathFor for unknown route names or
	// parameters that do not fit the route.
	ErrLookup = router.ErrNoMatch

	// ErrInvalidMiddleware is returned for a zero Middleware value.
	ErrInvalidMiddleware = errors.New("invalid middleware")

	// ErrUnsupportedMiddlewareKind is returned by MiddlewareFunc for kinds other than "http".
	ErrUnsupportedMiddlewareKind = errors.New(`only "http" middleware is supported`)
)
