// Package httpserver runs an http.Handler with graceful shutdown and an
// application lifecycle.
//
// Run executes the Startup hooks of every registered Lifecycle before the
// listener accepts connections, then serves until the context is cancelled,
// SIGINT or SIGTERM arrives, or Shutdown is called. Shutdown drains in-flight
// requests first and runs the Shutdown hooks afterwards, in reverse order:
//
//	app, _ := appkit.New(appkit.WithRoutes(routes...))
//	srv := httpserver.New(
//		httpserver.WithAddr(":8080"),
//		httpserver.WithLifecycle(app),
//		httpserver.WithLogger(log),
//	)
//	if err := srv.Run(ctx, app); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Liveness and Readiness build probe endpoints for a router. Startup
// failures wrap ErrStart and shutdown failures wrap ErrShutdown.
package httpserver
