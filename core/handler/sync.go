package handler

import (
	"github.com/dmitrymomot/conduit/core/request"
	"github.com/dmitrymomot/conduit/core/response"
)

type syncAdapter struct{}

func (syncAdapter) Apply(h Func, next Next, req *request.Request, res *response.Response) Done {
	return h(next, req, res)
}

func (syncAdapter) ApplyError(h ErrorFunc, next Next, err error, req *request.Request, res *response.Response) Done {
	return h(next, err, req, res)
}

// Sync converts synchronous handlers.
var Sync = Make[Func, ErrorFunc](syncAdapter{})

// From is Sync.From.
func From(h Func) Middleware { return Sync.From(h) }

// FromError is Sync.FromError.
func FromError(h ErrorFunc) Middleware { return Sync.FromError(h) }
