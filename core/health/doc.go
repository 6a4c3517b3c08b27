// Package health provides handlers for service health probes.
//
// Handlers:
//   - Liveness: process is running (no dependency checks)
//   - Readiness: all dependencies are available
//   - NoContent: returns 204 for minimal overhead
//
// Usage:
//
//	a.Get("/health/live", health.Liveness())
//	a.Get("/health/ready", health.Readiness(log, db.PingContext, cache.Ping))
//	a.Get("/ping", health.NoContent())
//
// Dependency checks must follow the func(context.Context) error signature.
// They receive the request context.
package health
