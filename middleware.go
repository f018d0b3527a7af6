package appkit

import (
	"net/http"
	"reflect"
	"runtime"
	"strings"

	"github.com/dmitrymomot/appkit/core"
)

// Middleware describes a user middleware. It stays opaque until the
// pipeline is compiled, when it is instantiated around the next layer.
// The order of descriptors is significant: the first one is outermost.
type Middleware struct {
	name  string
	build func(next core.App) core.App
}

// Name identifies the middleware in pipeline descriptions.
func (m Middleware) Name() string { return m.name }

// Named returns a copy of m with a different name.
func (m Middleware) Named(name string) Middleware {
	m.name = name
	return m
}

func (m Middleware) valid() bool { return m.build != nil }

// Use describes the middleware built by calling ctor(next, opts...).
// opts are captured now and passed at compile time.
//
//	func Timing(next core.App, opts ...TimingOption) core.App { ... }
//
//	app.AddMiddleware(appkit.Use(Timing, WithHeader("X-Elapsed")))
func Use[O any](ctor func(next core.App, opts ...O) core.App, opts ...O) Middleware {
	if ctor == nil {
		return Middleware{}
	}
	return Middleware{
		name: funcName(ctor),
		build: func(next core.App) core.App {
			return ctor(next, opts...)
		},
	}
}

// Wrap describes a middleware given as a plain wrapping function.
func Wrap(fn func(next core.App) core.App) Middleware {
	if fn == nil {
		return Middleware{}
	}
	return Middleware{name: funcName(fn), build: fn}
}

// HTTP describes a standard net/http middleware, such as the ones shipped
// with chi. Errors returned by the inner layers still reach the outer ones.
func HTTP(mw func(http.Handler) http.Handler) Middleware {
	if mw == nil {
		return Middleware{}
	}
	return Middleware{
		name: funcName(mw),
		build: func(next core.App) core.App {
			return core.Bridge(mw, next)
		},
	}
}

// DispatchFunc is a middleware body that receives the next layer per call.
type DispatchFunc func(w http.ResponseWriter, r *http.Request, next core.App) error

// Dispatch describes a middleware given as a DispatchFunc.
//
//	appkit.Dispatch(func(w http.ResponseWriter, r *http.Request, next core.App) error {
//		w.Header().Set("X-Frame-Options", "DENY")
//		return next.Serve(w, r)
//	})
func Dispatch(fn DispatchFunc) Middleware {
	if fn == nil {
		return Middleware{}
	}
	return Middleware{
		name: funcName(fn),
		build: func(next core.App) core.App {
			return core.AppFunc(func(w http.ResponseWriter, r *http.Request) error {
				return fn(w, r, next)
			})
		},
	}
}

func funcName(fn any) string {
	name := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
