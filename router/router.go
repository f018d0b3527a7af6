package router

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/appkit/core"
	"github.com/dmitrymomot/appkit/pkg/logger"
)

// Option configures a Router.
type Option func(*Router)

// WithRoutes registers routes at construction.
func WithRoutes(routes ...Route) Option {
	return func(rt *Router) { rt.pending = append(rt.pending, routes...) }
}

// WithUpgrader replaces the WebSocket upgrader. The default one only accepts
// same-origin handshakes.
func WithUpgrader(u *websocket.Upgrader) Option {
	return func(rt *Router) {
		if u != nil {
			rt.upgrader = u
		}
	}
}

// WithLogger sets the logger for events the router answers itself, such as
// rejected WebSocket handshakes.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Router) {
		if l != nil {
			rt.log = l.With(logger.Component("router"))
		}
	}
}

type hostRoute struct {
	pattern string
	app     core.App
}

// Router matches requests against registered routes.
// Registration is not safe for concurrent use and must finish before the
// first request is served.
type Router struct {
	mux      *chi.Mux
	routes   []Route
	hosts    []hostRoute
	upgrader *websocket.Upgrader
	log      *slog.Logger
	pending  []Route
	lifespan lifespanState
}

// New creates a Router. It fails when a route is invalid or when a lifespan
// is combined with startup/shutdown hooks.
func New(opts ...Option) (*Router, error) {
	rt := &Router{
		mux:      chi.NewRouter(),
		upgrader: &websocket.Upgrader{},
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(rt)
	}
	if err := rt.lifespan.validate(); err != nil {
		return nil, err
	}

	rt.mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		core.Report(r, core.ErrNotFound)
	})
	rt.mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		core.Report(r, core.ErrMethodNotAllowed.WithHeader("Allow", strings.Join(rt.allowed(r), ", ")))
	})

	pending := rt.pending
	rt.pending = nil
	for _, route := range pending {
		if err := rt.Add(route); err != nil {
			return nil, err
		}
	}
	return rt, nil
}

// Serve implements core.App.
func (rt *Router) Serve(w http.ResponseWriter, r *http.Request) error {
	for _, h := range rt.hosts {
		if matchHost(h.pattern, r.Host) {
			return h.app.Serve(w, r)
		}
	}
	return core.Capture(rt.mux, w, r)
}

// Add registers route.
func (rt *Router) Add(route Route) (err error) {
	if route.Kind != KindHost && !strings.HasPrefix(route.Path, "/") {
		return fmt.Errorf("%w: path %q must start with '/'", ErrInvalidRoute, route.Path)
	}

	// chi panics on malformed patterns and unsupported methods.
	if perr := core.Catch(func() error { return rt.register(route) }); perr != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidRoute, route.Path, perr)
	}
	rt.routes = append(rt.routes, route)
	return nil
}

func (rt *Router) register(route Route) error {
	switch route.Kind {
	case KindHTTP:
		if route.endpoint == nil {
			return fmt.Errorf("%w: nil endpoint", ErrInvalidRoute)
		}
		h := endpointHandler(route.endpoint)
		for _, m := range route.Methods {
			rt.mux.Method(m, route.Path, h)
		}
	case KindWebSocket:
		if route.websocket == nil {
			return fmt.Errorf("%w: nil endpoint", ErrInvalidRoute)
		}
		ep := route.websocket
		rt.mux.Get(route.Path, func(w http.ResponseWriter, r *http.Request) {
			core.Report(r, rt.serveWebSocket(ep, w, r))
		})
	case KindMount:
		if route.app == nil {
			return fmt.Errorf("%w: nil application", ErrInvalidRoute)
		}
		app := route.app
		rt.mux.Mount(route.Path, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			core.Report(r, app.Serve(w, r))
		}))
	case KindHost:
		if route.app == nil || route.Path == "" {
			return fmt.Errorf("%w: host route needs a host and an application", ErrInvalidRoute)
		}
		rt.hosts = append(rt.hosts, hostRoute{pattern: strings.ToLower(route.Path), app: route.app})
	default:
		return fmt.Errorf("%w: unknown route kind %d", ErrInvalidRoute, route.Kind)
	}
	return nil
}

// AddRoute registers an HTTP route.
func (rt *Router) AddRoute(path string, endpoint Endpoint, opts ...RouteOption) error {
	return rt.Add(NewRoute(path, endpoint, opts...))
}

// AddWebSocketRoute registers a WebSocket route.
func (rt *Router) AddWebSocketRoute(path string, endpoint WebSocketEndpoint, opts ...RouteOption) error {
	return rt.Add(NewWebSocketRoute(path, endpoint, opts...))
}

// Mount serves every request under path with app.
func (rt *Router) Mount(path string, app core.App, opts ...RouteOption) error {
	return rt.Add(NewMount(path, app, opts...))
}

// Host serves every request for host with app. Host routes are checked
// before path routes.
func (rt *Router) Host(host string, app core.App, opts ...RouteOption) error {
	return rt.Add(NewHost(host, app, opts...))
}

// Routes returns the registered routes in registration order.
func (rt *Router) Routes() []Route {
	return slices.Clone(rt.routes)
}

// Param returns the path parameter name of the matched route.
func Param(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// SubPath returns the part of the path not consumed by the enclosing mount.
func SubPath(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePath != "" {
		return rctx.RoutePath
	}
	return r.URL.Path
}

func endpointHandler(endpoint Endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		core.Report(r, serveEndpoint(endpoint, w, r))
	}
}

func serveEndpoint(endpoint Endpoint, w http.ResponseWriter, r *http.Request) error {
	resp, err := endpoint(r)
	if err != nil {
		return err
	}
	if resp == nil {
		return ErrNilResponse
	}
	return resp.Render(w, r)
}

// allowed lists the methods that would match the request path.
func (rt *Router) allowed(r *http.Request) []string {
	path := r.URL.RawPath
	if path == "" {
		path = r.URL.Path
	}
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePath != "" {
		path = rctx.RoutePath
	}

	var methods []string
	for _, m := range []string{
		http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions,
	} {
		if rt.mux.Match(chi.NewRouteContext(), m, path) {
			methods = append(methods, m)
		}
	}
	return methods
}

func matchHost(pattern, host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(host)
	if suffix, ok := strings.CutPrefix(pattern, "*."); ok {
		return strings.HasSuffix(host, "."+suffix)
	}
	return host == pattern
}
