package handler

import (
	"github.com/dmitrymomot/conduit/core/request"
	"github.com/dmitrymomot/conduit/core/response"
)

// Func is a synchronous middleware.
type Func func(next Next, req *request.Request, res *response.Response) Done

// ErrorFunc is a synchronous error-handling middleware. It is only invoked
// while the pipeline is in error mode and receives the error exactly as it
// was passed to Fail.
type ErrorFunc func(next Next, err error, req *request.Request, res *response.Response) Done

// Middleware is the opaque unit every handler shape is converted into. The
// zero value advances.
type Middleware struct {
	serve      Func
	serveError ErrorFunc
}

// HandlesErrors reports whether the middleware belongs to the error chain.
func (m Middleware) HandlesErrors() bool {
	return m.serveError != nil
}

// Serve runs the middleware in normal mode. Error handlers pass through.
func (m Middleware) Serve(next Next, req *request.Request, res *response.Response) Done {
	if m.serve == nil {
		return next.Advance()
	}
	return m.serve(next, req, res)
}

// ServeError runs the middleware in error mode. Normal middleware pass the
// error through.
func (m Middleware) ServeError(next Next, err error, req *request.Request, res *response.Response) Done {
	if m.serveError == nil {
		return next.Fail(err)
	}
	return m.serveError(next, err, req, res)
}
