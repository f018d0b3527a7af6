package appkit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/appkit/core"
	"github.com/dmitrymomot/appkit/exceptions"
	"github.com/dmitrymomot/appkit/pkg/logger"
	"github.com/dmitrymomot/appkit/router"
)

// Option configures an App.
type Option func(*options)

type options struct {
	debug      bool
	routes     []router.Route
	middleware []Middleware
	handlers   *exceptions.Registry
	lifespan   router.Lifespan
	startup    []router.Hook
	shutdown   []router.Hook
	upgrader   *websocket.Upgrader
	logger     *slog.Logger
	recorder   core.Recorder
	eager      bool
}

// WithDebug enables diagnostic responses for unhandled failures.
func WithDebug(debug bool) Option {
	return func(o *options) { o.debug = debug }
}

// WithRoutes registers routes at construction.
func WithRoutes(routes ...router.Route) Option {
	return func(o *options) { o.routes = append(o.routes, routes...) }
}

// WithMiddleware appends user middleware. The first one given is the
// outermost.
func WithMiddleware(middleware ...Middleware) Option {
	return func(o *options) { o.middleware = append(o.middleware, middleware...) }
}

// WithExceptionHandler registers a handler for key. Registration order
// matters for the catch-all keys, see exceptions.Partition.
func WithExceptionHandler(key exceptions.Key, h exceptions.Handler) Option {
	return func(o *options) { o.handlers.Set(key, h) }
}

// WithExceptionHandlers copies every entry of reg, in order.
func WithExceptionHandlers(reg *exceptions.Registry) Option {
	return func(o *options) {
		for k, h := range reg.All() {
			o.handlers.Set(k, h)
		}
	}
}

// WithLifespan sets the lifespan function. It cannot be combined with
// WithStartup or WithShutdown.
func WithLifespan(l router.Lifespan) Option {
	return func(o *options) { o.lifespan = l }
}

// WithStartup appends startup hooks.
func WithStartup(hooks ...router.Hook) Option {
	return func(o *options) { o.startup = append(o.startup, hooks...) }
}

// WithShutdown appends shutdown hooks.
func WithShutdown(hooks ...router.Hook) Option {
	return func(o *options) { o.shutdown = append(o.shutdown, hooks...) }
}

// WithUpgrader sets the upgrader used by WebSocket routes.
func WithUpgrader(u *websocket.Upgrader) Option {
	return func(o *options) { o.upgrader = u }
}

// WithLogger sets the logger used by the application and its boundaries.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRecorder sets the observer of pipeline builds and boundary outcomes.
func WithRecorder(rec core.Recorder) Option {
	return func(o *options) {
		if rec != nil {
			o.recorder = rec
		}
	}
}

// WithEagerBuild compiles the pipeline at the end of New. Middleware can
// then no longer be added.
func WithEagerBuild() Option {
	return func(o *options) { o.eager = true }
}

type compiled struct {
	app core.App
}

// App assembles the boundaries, the user middleware and the router into a
// single pipeline and dispatches connections through it.
//
// The pipeline is compiled once, on the first Dispatch, from the
// configuration at that moment:
//
//	server error boundary -> middleware... -> exception boundary -> router
//
// Registration methods must be called before the first Dispatch. URLPathFor
// and State can be used at any time.
type App struct {
	debug    bool
	state    *State
	router   *router.Router
	log      *slog.Logger
	recorder core.Recorder

	mu         sync.Mutex
	middleware []Middleware
	handlers   *exceptions.Registry
	pipeline   atomic.Pointer[compiled]
}

// New creates an App. It fails with ErrConfiguration when a lifespan is
// combined with startup/shutdown hooks or when a route is invalid.
func New(opts ...Option) (*App, error) {
	o := &options{
		handlers: exceptions.NewRegistry(),
		logger:   slog.Default(),
		recorder: core.NopRecorder{},
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.lifespan != nil && (len(o.startup) > 0 || len(o.shutdown) > 0) {
		return nil, errors.Join(ErrConfiguration, router.ErrLifespanConflict)
	}
	for _, m := range o.middleware {
		if !m.valid() {
			return nil, errors.Join(ErrConfiguration, ErrInvalidMiddleware)
		}
	}

	rt, err := router.New(
		router.WithRoutes(o.routes...),
		router.WithLifespan(o.lifespan),
		router.WithStartup(o.startup...),
		router.WithShutdown(o.shutdown...),
		router.WithUpgrader(o.upgrader),
		router.WithLogger(o.logger),
	)
	if err != nil {
		return nil, errors.Join(ErrConfiguration, err)
	}

	a := &App{
		debug:      o.debug,
		state:      NewState(),
		router:     rt,
		log:        o.logger,
		recorder:   o.recorder,
		middleware: slices.Clone(o.middleware),
		handlers:   o.handlers,
	}
	if o.eager {
		a.stack()
	}
	return a, nil
}

// Debug reports whether debug responses are enabled.
func (a *App) Debug() bool { return a.debug }

// State returns the shared state bag.
func (a *App) State() *State { return a.state }

// Router returns the routing leaf.
func (a *App) Router() *router.Router { return a.router }

// Routes returns the registered routes.
func (a *App) Routes() []router.Route { return a.router.Routes() }

// Started reports whether the pipeline has been compiled.
func (a *App) Started() bool { return a.pipeline.Load() != nil }

// AddMiddleware makes m the outermost user middleware. It fails with
// ErrLifecycle once the pipeline has been compiled.
func (a *App) AddMiddleware(m Middleware) error {
	if !m.valid() {
		return ErrInvalidMiddleware
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Started() {
		return ErrLifecycle
	}
	a.middleware = slices.Insert(a.middleware, 0, m)
	return nil
}

// AddExceptionHandler registers h for key, replacing any previous handler
// for an equal key. A compiled pipeline is not affected.
func (a *App) AddExceptionHandler(key exceptions.Key, h exceptions.Handler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Started() {
		a.log.Warn("exception handler registered after start has no effect",
			logger.Component("app"),
			slog.String("handler_key", key.String()),
		)
	}
	a.handlers.Set(key, h)
}

// AddRoute registers an HTTP route.
func (a *App) AddRoute(path string, endpoint router.Endpoint, opts ...router.RouteOption) error {
	return a.configure(func() error { return a.router.AddRoute(path, endpoint, opts...) })
}

// AddWebSocketRoute registers a WebSocket route.
func (a *App) AddWebSocketRoute(path string, endpoint router.WebSocketEndpoint, opts ...router.RouteOption) error {
	return a.configure(func() error { return a.router.AddWebSocketRoute(path, endpoint, opts...) })
}

// Mount serves requests under path with app.
func (a *App) Mount(path string, app core.App, opts ...router.RouteOption) error {
	return a.configure(func() error { return a.router.Mount(path, app, opts...) })
}

// Host serves requests for host with app.
func (a *App) Host(host string, app core.App, opts ...router.RouteOption) error {
	return a.configure(func() error { return a.router.Host(host, app, opts...) })
}

// AddEventHandler registers a "startup" or "shutdown" hook.
func (a *App) AddEventHandler(event string, hook router.Hook) error {
	return a.configure(func() error { return a.router.AddEventHandler(event, hook) })
}

func (a *App) configure(fn func() error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Started() {
		return ErrLifecycle
	}
	return fn()
}

// URLPathFor returns the path of the named route. It fails with ErrLookup
// when no route has the name or the parameters do not fit.
func (a *App) URLPathFor(name string, params map[string]string) (string, error) {
	p, err := a.router.URLPathFor(name, params)
	if err != nil {
		return "", fmt.Errorf("url path for %q: %w", name, err)
	}
	return p, nil
}

// Startup runs the lifespan or the startup hooks.
func (a *App) Startup(ctx context.Context) error { return a.router.Startup(ctx) }

// Shutdown runs the lifespan shutdown or the shutdown hooks.
func (a *App) Shutdown(ctx context.Context) error { return a.router.Shutdown(ctx) }

// Blueprint snapshots the current configuration.
func (a *App) Blueprint() Blueprint {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.blueprint()
}

func (a *App) blueprint() Blueprint {
	return Blueprint{
		Router:     a.router,
		Handlers:   a.handlers.Clone(),
		Middleware: slices.Clone(a.middleware),
		Debug:      a.debug,
		Logger:     a.log,
		Recorder:   a.recorder,
	}
}

// Build compiles a pipeline from the current configuration without caching
// it. Dispatch uses its own cached pipeline.
func (a *App) Build() core.App {
	return Compile(a.Blueprint())
}

// stack returns the cached pipeline, compiling it exactly once.
func (a *App) stack() core.App {
	if p := a.pipeline.Load(); p != nil {
		return p.app
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if p := a.pipeline.Load(); p != nil {
		return p.app
	}
	p := &compiled{app: Compile(a.blueprint())}
	a.pipeline.Store(p)
	return p.app
}

// Dispatch handles one connection. It attaches the scope, with a reference
// to a, to the request context and runs the pipeline. A returned error is a
// failure that reached the outermost boundary; a response was already sent
// for it when possible.
func (a *App) Dispatch(w http.ResponseWriter, r *http.Request) error {
	r = r.WithContext(context.WithValue(r.Context(), scopeKey{}, newScope(a, r)))
	return a.stack().Serve(w, r)
}

// Serve implements core.App so an App can be mounted inside another one.
func (a *App) Serve(w http.ResponseWriter, r *http.Request) error {
	return a.Dispatch(w, r)
}

// ServeHTTP implements http.Handler. Failures have been answered and logged
// by the server error boundary by the time they surface here.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := a.Dispatch(w, r); err != nil {
		a.log.DebugContext(r.Context(), "dispatch failed",
			logger.Component("app"),
			logger.Event("dispatch_failed"),
			logger.Error(err),
		)
	}
}
