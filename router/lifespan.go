package router

import (
	"context"
	"errors"
	"fmt"
)

// Hook runs at startup or shutdown.
type Hook func(ctx context.Context) error

// Lifespan runs the startup work and returns the shutdown work.
// It replaces startup/shutdown hooks; a Router accepts one or the other.
type Lifespan func(ctx context.Context) (shutdown Hook, err error)

// Lifespan events accepted by AddEventHandler.
const (
	EventStartup  = "startup"
	EventShutdown = "shutdown"
)

type lifespanState struct {
	lifespan Lifespan
	startup  []Hook
	shutdown []Hook
	stop     Hook
}

func (s *lifespanState) validate() error {
	if s.lifespan != nil && (len(s.startup) > 0 || len(s.shutdown) > 0) {
		return ErrLifespanConflict
	}
	return nil
}

// WithLifespan sets the lifespan function.
func WithLifespan(l Lifespan) Option {
	return func(rt *Router) { rt.lifespan.lifespan = l }
}

// WithStartup appends startup hooks.
func WithStartup(hooks ...Hook) Option {
	return func(rt *Router) { rt.lifespan.startup = append(rt.lifespan.startup, hooks...) }
}

// WithShutdown appends shutdown hooks.
func WithShutdown(hooks ...Hook) Option {
	return func(rt *Router) { rt.lifespan.shutdown = append(rt.lifespan.shutdown, hooks...) }
}

// AddEventHandler appends a hook for the "startup" or "shutdown" event.
func (rt *Router) AddEventHandler(event string, hook Hook) error {
	if hook == nil {
		return nil
	}
	if rt.lifespan.lifespan != nil {
		return ErrLifespanConflict
	}
	switch event {
	case EventStartup:
		rt.lifespan.startup = append(rt.lifespan.startup, hook)
	case EventShutdown:
		rt.lifespan.shutdown = append(rt.lifespan.shutdown, hook)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}
	return nil
}

// Startup runs the lifespan, or the startup hooks in order, stopping at the
// first failure.
func (rt *Router) Startup(ctx context.Context) error {
	s := &rt.lifespan
	if s.lifespan != nil {
		stop, err := s.lifespan(ctx)
		if err != nil {
			return errors.Join(ErrStartup, err)
		}
		s.stop = stop
		return nil
	}
	for _, h := range s.startup {
		if err := h(ctx); err != nil {
			return errors.Join(ErrStartup, err)
		}
	}
	return nil
}

// Shutdown runs the shutdown returned by the lifespan, or every shutdown
// hook, collecting failures.
func (rt *Router) Shutdown(ctx context.Context) error {
	s := &rt.lifespan
	var errs []error
	if s.lifespan != nil {
		if s.stop != nil {
			errs = append(errs, s.stop(ctx))
			s.stop = nil
		}
	} else {
		for _, h := range s.shutdown {
			errs = append(errs, h(ctx))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return errors.Join(ErrShutdown, err)
	}
	return nil
}
