// Package health provides HTTP handlers for service health probes.
//
// Handlers:
//   - Liveness: the process is running
//   - Readiness: every dependency check passes
//   - NoContent: 204 with no body
//
// They are plain http.Handlers mounted beside the dispatcher so probes never
// open a client session:
//
//	mux.Handle("GET /health/live", health.Liveness())
//	mux.Handle("GET /health/ready", health.Readiness(log, redis.Healthcheck(client)))
//	mux.Handle("/", dispatcher)
//
// Checks follow the func(context.Context) error signature and run in order.
package health
