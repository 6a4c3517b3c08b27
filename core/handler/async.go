package handler

import (
	"github.com/dmitrymomot/conduit/core/request"
	"github.com/dmitrymomot/conduit/core/response"
	"github.com/dmitrymomot/conduit/pkg/async"
)

// AsyncFunc is a middleware whose outcome arrives as a future.
type AsyncFunc func(next Next, req *request.Request, res *response.Response) *async.Future[Done]

// AsyncErrorFunc is the error-handling variant of AsyncFunc.
type AsyncErrorFunc func(next Next, err error, req *request.Request, res *response.Response) *async.Future[Done]

type asyncAdapter struct{}

func (asyncAdapter) Apply(h AsyncFunc, next Next, req *request.Request, res *response.Response) Done {
	return await(h(next, req, res), next)
}

func (asyncAdapter) ApplyError(h AsyncErrorFunc, next Next, err error, req *request.Request, res *response.Response) Done {
	return await(h(next, err, req, res), next)
}

// await blocks until the future settles. A rejection becomes next.Fail.
// The request context is not watched: the future's goroutine owns req and
// res until it settles, so handlers that want to stop early observe
// req.Context() themselves and reject with its error.
func await(f *async.Future[Done], next Next) Done {
	if f == nil {
		return next.Advance()
	}
	done, err := f.Await()
	if err != nil {
		return next.Fail(err)
	}
	return done
}

// Async converts future-returning handlers.
var Async = Make[AsyncFunc, AsyncErrorFunc](asyncAdapter{})

// FromAsync is Async.From.
func FromAsync(h AsyncFunc) Middleware { return Async.From(h) }

// FromAsyncError is Async.FromError.
func FromAsyncError(h AsyncErrorFunc) Middleware { return Async.FromError(h) }
