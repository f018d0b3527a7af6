// Package logger builds *slog.Logger values for appkit services.
//
// New takes functional options for the format (json, text or tint), the
// minimum level, static attributes and ContextExtractor callbacks. Extractors
// run on every record, so values such as the request id travel from the
// request context into the log line without threading a logger through
// handlers.
//
//	log := logger.New(
//		logger.WithDevelopment("pingserver"),
//		logger.WithContextExtractors(requestid.LogExtractor),
//	)
//	logger.SetAsDefault(log)
//
// Attribute helpers (Error, Errors, Component, Event, RequestID, Status and
// Duration) keep key names consistent across packages. Error and Errors
// return an empty attribute for nil errors, which slog drops:
//
//	log.Info("done", logger.Error(err))
package logger
