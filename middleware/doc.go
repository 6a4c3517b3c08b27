// Package middleware provides ready-made middleware for conduit applications.
//
// Body parsers read the request body once, enforce a size limit and attach
// exactly one parsed payload to the request:
//
//	a.Use(middleware.JSON())        // request.JSONBody
//	a.Use(middleware.URLEncoded())  // request.FormBody
//	a.Use(middleware.Text())        // request.TextBody
//	a.Use(middleware.Raw())         // request.RawBody
//
// A parser skips requests whose Content-Type it does not handle and
// requests another parser already consumed. Failures become HTTP errors
// (400, 403, 413 or 415) on the error chain.
//
// Observability middleware should be registered first so it wraps the rest
// of the pipeline:
//
//	a.Use(middleware.RequestID())
//	a.Use(middleware.LoggingWithLogger(log))
//	a.Use(middleware.Metrics())
//	a.Use(middleware.Tracing())
//	a.Get("/metrics", middleware.MetricsHandler(nil))
//
// Logging, Metrics and Tracing record the final status after the pipeline
// has answered, including answers produced by the final error handler.
package middleware
