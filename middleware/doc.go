// Package middleware provides net/http middleware for the request ID, access
// logging and request body limits.
//
// Every middleware has a default constructor and a WithConfig variant whose
// Skip predicate bypasses it for matching requests:
//
//	h := middleware.RequestID()(
//		middleware.LoggingWithConfig(middleware.LoggingConfig{
//			Logger: log,
//			Skip: func(r *http.Request) bool {
//				return strings.HasPrefix(r.URL.Path, "/health")
//			},
//		})(
//			middleware.BodyLimit(middleware.MB)(dispatcher),
//		),
//	)
//
// The request ID is stored in the request context; pass RequestIDExtractor to
// logger.WithContextExtractors so every log record of the request carries it.
package middleware

import "net/http"

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares so the first one is the outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
