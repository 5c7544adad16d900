package middleware

import (
	"fmt"
	"mime"
	"net/http"
)

// Common size constants.
const (
	KB int64 = 1024
	MB       = 1024 * KB
	GB       = 1024 * MB
)

// DefaultBodyLimit is the limit used when none is configured.
const DefaultBodyLimit = 4 * MB

// BodyLimitConfig configures the request body limit middleware.
type BodyLimitConfig struct {
	// Skip bypasses the middleware for matching requests.
	Skip func(r *http.Request) bool
	// MaxSize is the maximum body size in bytes (default: 4MB).
	MaxSize int64
	// ContentTypeLimit overrides MaxSize per media type.
	ContentTypeLimit map[string]int64
	// ErrorHandler answers requests whose declared length exceeds the limit.
	ErrorHandler func(w http.ResponseWriter, r *http.Request, maxSize int64)
}

// BodyLimit rejects bodies over maxSize bytes.
func BodyLimit(maxSize int64) Middleware {
	return BodyLimitWithConfig(BodyLimitConfig{MaxSize: maxSize})
}

// BodyLimitWithConfig rejects requests whose Content-Length exceeds the limit with
// 413 and caps the body reader for the rest, so the form parser fails instead of
// buffering an unbounded body.
func BodyLimitWithConfig(cfg BodyLimitConfig) Middleware {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultBodyLimit
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(w http.ResponseWriter, _ *http.Request, maxSize int64) {
			http.Error(w, fmt.Sprintf("Request body too large. Maximum allowed: %s", formatBytes(maxSize)),
				http.StatusRequestEntityTooLarge)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			maxSize := cfg.MaxSize
			if cfg.ContentTypeLimit != nil {
				if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil {
					if limit, ok := cfg.ContentTypeLimit[mediaType]; ok {
						maxSize = limit
					}
				}
			}

			if r.ContentLength > maxSize {
				cfg.ErrorHandler(w, r, maxSize)
				return
			}
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, maxSize)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func formatBytes(n int64) string {
	switch {
	case n >= GB:
		return fmt.Sprintf("%.2f GB", float64(n)/float64(GB))
	case n >= MB:
		return fmt.Sprintf("%.2f MB", float64(n)/float64(MB))
	case n >= KB:
		return fmt.Sprintf("%.2f KB", float64(n)/float64(KB))
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
