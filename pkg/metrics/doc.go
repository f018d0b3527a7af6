// Package metrics exports pipeline and request metrics to Prometheus.
//
// A Recorder implements core.Recorder, so passing it to appkit.WithRecorder
// counts compiled pipelines, handled exceptions and server errors. Its
// Instrument method is an appkit middleware that measures every request:
//
//	rec := metrics.MustNewRecorder(prometheus.NewRegistry())
//	app, _ := appkit.New(
//		appkit.WithRecorder(rec),
//		appkit.WithMiddleware(appkit.Wrap(rec.Instrument)),
//		appkit.WithRoutes(router.NewRoute("/metrics", rec.Endpoint())),
//	)
package metrics
