// Package router implements the layer stack that drives a request through
// middleware and routes.
//
// A Router holds an ordered list of layers. Use-layers match a path prefix
// and run a single middleware; route layers match the full path and an HTTP
// method and run one or more handlers. Layers are tried in registration
// order. A middleware either finalizes the response or calls its
// continuation with one of four signals:
//
//	next.Advance()      // continue with the next matching layer
//	next.SkipRoute()    // leave the current route's remaining handlers
//	next.SkipRouter()   // leave this router, continue in the parent
//	next.Fail(err)      // switch to the error chain
//
// Once an error is in flight only error-handling middleware run, receiving
// the exact error value. Route layers are skipped in error mode.
//
// # Paths
//
// Patterns use ":name" segments; "/users/:id" exposes the "id" parameter.
// Use-layers strip their prefix, so a router mounted at "/api" sees
// "/api/users" as "/users" while BaseURL reports "/api".
//
//	api := router.New()
//	api.Get("/users/:id", handler.From(getUser))
//
//	root := router.New()
//	root.Mount("/api", api)
//
// # Parameters
//
// Param callbacks run once per parameter value per request, before the
// first layer whose pattern declares the parameter:
//
//	api.Param("id", handler.From(loadUser))
//
// # Faults
//
// A panicking middleware is recovered and its panic is passed to the error
// chain as a *handler.PanicError, unless the response has already been
// written or the middleware already called next; those cases are logged.
package router
