package handler

import (
	"github.com/dmitrymomot/conduit/core/request"
	"github.com/dmitrymomot/conduit/core/response"
)

// Adapter is the shape-specific glue between a raw handler type and the
// pipeline. H is the normal handler shape, E the error-handler shape.
// Implementations invoke the raw handler and normalize its outcome to Done;
// they do not recover panics.
type Adapter[H, E any] interface {
	Apply(h H, next Next, req *request.Request, res *response.Response) Done
	ApplyError(h E, next Next, err error, req *request.Request, res *response.Response) Done
}

// Module turns raw handlers of one shape into Middleware values.
type Module[H, E any] struct {
	adapter Adapter[H, E]
}

// Make builds a Module from an Adapter.
func Make[H, E any](a Adapter[H, E]) Module[H, E] {
	return Module[H, E]{adapter: a}
}

// From wraps a normal handler.
func (m Module[H, E]) From(h H) Middleware {
	a := m.adapter
	return Middleware{
		serve: func(next Next, req *request.Request, res *response.Response) Done {
			return a.Apply(h, next, req, res)
		},
	}
}

// FromError wraps an error handler.
func (m Module[H, E]) FromError(h E) Middleware {
	a := m.adapter
	return Middleware{
		serveError: func(next Next, err error, req *request.Request, res *response.Response) Done {
			return a.ApplyError(h, next, err, req, res)
		},
	}
}
