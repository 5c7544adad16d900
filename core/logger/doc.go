// Package logger builds slog loggers and provides attribute helpers used across pagekit.
//
//	log := logger.New(
//		logger.WithProduction("pagekit"),
//		logger.WithContextExtractors(middleware.RequestIDAttr),
//	)
//
//	log.InfoContext(ctx, "request dispatched",
//		logger.Method(r.Method),
//		logger.Path(r.URL.Path),
//		logger.StatusCode(status),
//		logger.Duration(time.Since(start)),
//	)
//
// Attribute helpers return an empty slog.Attr for zero values, so logger.Error(nil)
// or logger.RequestID("") can be passed without checks.
package logger
