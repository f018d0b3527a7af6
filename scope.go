package appkit

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
)

// ScopeType is the protocol of a connection.
type ScopeType string

const (
	ScopeHTTP      ScopeType = "http"
	ScopeWebSocket ScopeType = "websocket"
)

// Scope describes the connection being dispatched. Dispatch stores it in the
// request context, with App pointing back at the dispatching application.
type Scope struct {
	Type   ScopeType
	Method string
	Path   string
	App    *App
}

type scopeKey struct{}

func newScope(app *App, r *http.Request) *Scope {
	s := &Scope{Type: ScopeHTTP, Method: r.Method, Path: r.URL.Path, App: app}
	if websocket.IsWebSocketUpgrade(r) {
		s.Type = ScopeWebSocket
	}
	return s
}

// ScopeFromContext returns the scope of the innermost dispatching application.
func ScopeFromContext(ctx context.Context) (*Scope, bool) {
	s, ok := ctx.Value(scopeKey{}).(*Scope)
	return s, ok
}

// FromContext returns the application dispatching the request, or nil.
//
//	func handler(r *http.Request) (core.Response, error) {
//		app := appkit.FromContext(r.Context())
//		hits, _ := appkit.StateValue[*atomic.Int64](app.State(), "hits")
//		...
//	}
func FromContext(ctx context.Context) *App {
	if s, ok := ScopeFromContext(ctx); ok {
		return s.App
	}
	return nil
}
