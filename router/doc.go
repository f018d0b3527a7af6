// Package router is the routing leaf of an appkit pipeline, built on
// go-chi/chi. It matches HTTP and WebSocket routes, mounts sub-applications,
// dispatches by host and reverses route names into URL paths.
//
// Unlike a plain chi mux the Router is a core.App: failures from endpoints are
// returned, unmatched paths return core.ErrNotFound and a path matched with
// the wrong method returns core.ErrMethodNotAllowed with an Allow header, so
// the surrounding boundaries decide how to answer.
//
// The Router also owns the application's lifespan: either a single Lifespan
// function or separate startup and shutdown hooks, never both.
package router
