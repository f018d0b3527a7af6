// Package appkit composes an HTTP application out of a fixed set of
// boundaries, user supplied middleware and a router.
//
// Every request travels through the same compiled pipeline:
//
//	server error boundary      catches everything, answers 500, returns the failure
//	  user middleware[0]       outermost user middleware
//	  ...
//	  user middleware[n-1]
//	    exception boundary     resolves failures to registered exception handlers
//	      router               matches the route and calls the endpoint
//
// The pipeline is compiled lazily, exactly once, on the first Dispatch.
// Middleware cannot be added after that point.
//
// # Basic Usage
//
//	ping := func(r *http.Request) (core.Response, error) {
//		return core.Text(http.StatusOK, "pong"), nil
//	}
//
//	app, err := appkit.New(
//		appkit.WithRoutes(router.NewRoute("/ping", ping, router.WithName("ping"))),
//		appkit.WithMiddleware(appkit.HTTP(requestid.Middleware)),
//	)
//	if err != nil {
//		return err
//	}
//	http.ListenAndServe(":8080", app)
//
// # Middleware Order
//
// Middleware passed to New keeps its order, first is outermost.
// AddMiddleware inserts at the head, so the middleware added last becomes the
// outermost user middleware, still inside the server error boundary:
//
//	app, _ := appkit.New(appkit.WithMiddleware(a))
//	app.AddMiddleware(b)
//	appkit.Describe(app.Blueprint())
//	// [server_error b a exceptions router]
//
// # Exception Handlers
//
// Handlers are keyed by status code, error category or sentinel error:
//
//	app.AddExceptionHandler(exceptions.CategoryOf[*PaymentError](),
//		func(r *http.Request, err error) core.Response {
//			return core.JSONError(core.NewHTTPError(http.StatusPaymentRequired, "payment_required"))
//		})
//	app.AddExceptionHandler(exceptions.StatusKey(http.StatusNotFound), notFoundPage)
//
// StatusKey(500) and exceptions.AnyError register the catch-all handler used
// by the server error boundary. When both are present, the one registered
// last wins.
//
// # Shared State
//
// App.State is an application-lifetime key-value bag reachable from any
// handler through FromContext(r.Context()).State(). It is not synchronized.
package appkit
