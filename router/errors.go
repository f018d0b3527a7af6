package router

import "errors"

var (
	// ErrNoMatch is returned by URLPathFor when no route has the name or the
	// parameters do not fit its pattern.
	ErrNoMatch = errors.New("no route matches the given name and parameters")
	// ErrInvalidRoute is returned when a route cannot be registered.
	ErrInvalidRoute = errors.New("invalid route")
	// ErrLifespanConflict is returned when a lifespan and startup/shutdown hooks are combined.
	ErrLifespanConflict = errors.New("use either a lifespan or startup/shutdown hooks, not both")
	// ErrUnknownEvent is returned by AddEventHandler for events other than startup and shutdown.
	ErrUnknownEvent = errors.New("unknown lifespan event")
	// ErrStartup wraps a failing startup hook or lifespan.
	ErrStartup = errors.New("application startup failed")
	// ErrShutdown wraps failing shutdown hooks.
	ErrShutdown = errors.New("application shutdown failed")
)

// ErrNilResponse indicates an endpoint returned neither a response nor an error.
var ErrNilResponse = errors.New("endpoint returned nil response")
