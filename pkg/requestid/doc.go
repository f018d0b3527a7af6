// Package requestid attaches a correlation id to every request.
//
// If the client sends a well formed X-Request-ID header its value is reused,
// otherwise a UUIDv4 is generated. The id is stored in the request context,
// echoed in the response header and picked up by LogExtractor:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LogExtractor))
//	app.AddMiddleware(appkit.Use(requestid.New))
//
// Middleware is the plain net/http variant for use with appkit.HTTP or any
// other router.
package requestid
