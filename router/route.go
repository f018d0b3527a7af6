package router

import (
	"net/http"
	"slices"

	"github.com/dmitrymomot/appkit/core"
)

// Endpoint handles one HTTP request.
type Endpoint func(r *http.Request) (core.Response, error)

// Kind tells what a Route dispatches to.
type Kind uint8

const (
	KindHTTP Kind = iota + 1
	KindWebSocket
	KindMount
	KindHost
)

func (k Kind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindWebSocket:
		return "websocket"
	case KindMount:
		return "mount"
	case KindHost:
		return "host"
	}
	return "unknown"
}

// Route describes a registered route. Path is a chi pattern, or a host
// pattern for KindHost.
type Route struct {
	Kind            Kind
	Path            string
	Name            string
	Methods         []string
	IncludeInSchema bool

	endpoint  Endpoint
	websocket WebSocketEndpoint
	app       core.App
}

// RouteOption configures a Route.
type RouteOption func(*Route)

// WithName names the route for URLPathFor.
func WithName(name string) RouteOption {
	return func(r *Route) { r.Name = name }
}

// WithMethods sets the HTTP methods of an HTTP route. GET implies HEAD.
func WithMethods(methods ...string) RouteOption {
	return func(r *Route) { r.Methods = methods }
}

// ExcludeFromSchema hides the route from schema generators.
func ExcludeFromSchema() RouteOption {
	return func(r *Route) { r.IncludeInSchema = false }
}

// NewRoute declares an HTTP route. Methods default to GET.
func NewRoute(path string, endpoint Endpoint, opts ...RouteOption) Route {
	r := Route{Kind: KindHTTP, Path: path, IncludeInSchema: true, endpoint: endpoint}
	for _, opt := range opts {
		opt(&r)
	}
	if len(r.Methods) == 0 {
		r.Methods = []string{http.MethodGet}
	}
	if slices.Contains(r.Methods, http.MethodGet) && !slices.Contains(r.Methods, http.MethodHead) {
		r.Methods = append(slices.Clone(r.Methods), http.MethodHead)
	}
	return r
}

// NewWebSocketRoute declares a WebSocket route.
func NewWebSocketRoute(path string, endpoint WebSocketEndpoint, opts ...RouteOption) Route {
	r := Route{Kind: KindWebSocket, Path: path, websocket: endpoint}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// NewMount declares app mounted under path.
func NewMount(path string, app core.App, opts ...RouteOption) Route {
	r := Route{Kind: KindMount, Path: path, app: app}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// NewHost declares app serving requests for host. A leading "*." matches
// any subdomain.
func NewHost(host string, app core.App, opts ...RouteOption) Route {
	r := Route{Kind: KindHost, Path: host, app: app}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}
