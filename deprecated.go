package appkit

import (
	"log/slog"

	"github.com/dmitrymomot/appkit/exceptions"
	"github.com/dmitrymomot/appkit/pkg/logger"
	"github.com/dmitrymomot/appkit/router"
)

// The registration helpers below mirror the builder methods, log a
// deprecation warning and hand their callable back unchanged so it can
// still be called directly.

// Route registers endpoint and returns it.
//
// Deprecated: declare routes with WithRoutes or register them with AddRoute.
func (a *App) Route(path string, endpoint router.Endpoint, opts ...router.RouteOption) (router.Endpoint, error) {
	a.deprecated("Route", "WithRoutes or AddRoute")
	return endpoint, a.AddRoute(path, endpoint, opts...)
}

// WebSocketRoute registers endpoint and returns it.
//
// Deprecated: declare routes with WithRoutes or register them with AddWebSocketRoute.
func (a *App) WebSocketRoute(path string, endpoint router.WebSocketEndpoint, opts ...router.RouteOption) (router.WebSocketEndpoint, error) {
	a.deprecated("WebSocketRoute", "WithRoutes or AddWebSocketRoute")
	return endpoint, a.AddWebSocketRoute(path, endpoint, opts...)
}

// ExceptionHandler registers h for key and returns it.
//
// Deprecated: use WithExceptionHandler or AddExceptionHandler.
func (a *App) ExceptionHandler(key exceptions.Key, h exceptions.Handler) exceptions.Handler {
	a.deprecated("ExceptionHandler", "WithExceptionHandler or AddExceptionHandler")
	a.AddExceptionHandler(key, h)
	return h
}

// MiddlewareFunc registers fn as the outermost user middleware and returns
// it. kind must be "http".
//
// Deprecated: use WithMiddleware or AddMiddleware with Dispatch.
func (a *App) MiddlewareFunc(kind string, fn DispatchFunc) (DispatchFunc, error) {
	a.deprecated("MiddlewareFunc", "WithMiddleware or AddMiddleware")
	if kind != "http" {
		return fn, ErrUnsupportedMiddlewareKind
	}
	return fn, a.AddMiddleware(Dispatch(fn))
}

// OnEvent registers hook for a lifespan event and returns it.
//
// Deprecated: use WithLifespan.
func (a *App) OnEvent(event string, hook router.Hook) (router.Hook, error) {
	a.deprecated("OnEvent", "WithLifespan")
	return hook, a.AddEventHandler(event, hook)
}

func (a *App) deprecated(api, replacement string) {
	a.log.Warn("deprecated API used",
		logger.Component("app"),
		logger.Event("deprecation"),
		slog.String("api", api),
		slog.String("use_instead", replacement),
	)
}
