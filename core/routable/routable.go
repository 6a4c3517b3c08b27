// Package routable derives the full set of binding operations (Use, Get,
// PostWithMany, Param, ...) for any type that can register middleware, so
// routers and applications share one implementation.
package routable

import (
	"net/http"

	"github.com/dmitrymomot/conduit/core/handler"
)

// AnyMethod registers a route for every HTTP method.
const AnyMethod = "*"

// Registrar is the single capability the binding operations need.
type Registrar interface {
	// Register adds a route: mws run in order for requests whose method and
	// full path match.
	Register(method, path string, mws []handler.Middleware)
	// RegisterUse adds each middleware as a layer that runs for every
	// request whose path starts with path.
	RegisterUse(path string, mws []handler.Middleware)
	// RegisterParam adds a callback that runs once per request when a route
	// with the named parameter matches.
	RegisterParam(name string, mw handler.Middleware)
}

// Routable implements the binding operations on top of a Registrar. Every
// operation returns the target for chaining.
type Routable[R any] struct {
	reg  Registrar
	self R
}

// New binds the operations to target.
func New[R Registrar](target R) Routable[R] {
	return Routable[R]{reg: target, self: target}
}

// Use registers m for every path.
func (b Routable[R]) Use(m handler.Middleware) R {
	return b.UseWithMany([]handler.Middleware{m})
}

// UseWithMany registers ms, in order, for every path.
func (b Routable[R]) UseWithMany(ms []handler.Middleware) R {
	return b.UseOnPathWithMany("/", ms)
}

// UseOnPath registers m for path and everything below it.
func (b Routable[R]) UseOnPath(path string, m handler.Middleware) R {
	return b.UseOnPathWithMany(path, []handler.Middleware{m})
}

// UseOnPathWithMany registers ms, in order, for path and everything below it.
func (b Routable[R]) UseOnPathWithMany(path string, ms []handler.Middleware) R {
	b.reg.RegisterUse(path, ms)
	return b.self
}

// Param registers m to run when a route with parameter name matches.
func (b Routable[R]) Param(name string, m handler.Middleware) R {
	b.reg.RegisterParam(name, m)
	return b.self
}

func (b Routable[R]) route(method, path string, ms []handler.Middleware) R {
	b.reg.Register(method, path, ms)
	return b.self
}

func (b Routable[R]) All(path string, m handler.Middleware) R {
	return b.route(AnyMethod, path, []handler.Middleware{m})
}

func (b Routable[R]) AllWithMany(path string, ms []handler.Middleware) R {
	return b.route(AnyMethod, path, ms)
}

func (b Routable[R]) Get(path string, m handler.Middleware) R {
	return b.route(http.MethodGet, path, []handler.Middleware{m})
}

func (b Routable[R]) GetWithMany(path string, ms []handler.Middleware) R {
	return b.route(http.MethodGet, path, ms)
}

func (b Routable[R]) Post(path string, m handler.Middleware) R {
	return b.route(http.MethodPost, path, []handler.Middleware{m})
}

func (b Routable[R]) PostWithMany(path string, ms []handler.Middleware) R {
	return b.route(http.MethodPost, path, ms)
}

func (b Routable[R]) Put(path string, m handler.Middleware) R {
	return b.route(http.MethodPut, path, []handler.Middleware{m})
}

func (b Routable[R]) PutWithMany(path string, ms []handler.Middleware) R {
	return b.route(http.MethodPut, path, ms)
}

func (b Routable[R]) Patch(path string, m handler.Middleware) R {
	return b.route(http.MethodPatch, path, []handler.Middleware{m})
}

func (b Routable[R]) PatchWithMany(path string, ms []handler.Middleware) R {
	return b.route(http.MethodPatch, path, ms)
}

func (b Routable[R]) Delete(path string, m handler.Middleware) R {
	return b.route(http.MethodDelete, path, []handler.Middleware{m})
}

func (b Routable[R]) DeleteWithMany(path string, ms []handler.Middleware) R {
	return b.route(http.MethodDelete, path, ms)
}

func (b Routable[R]) Options(path string, m handler.Middleware) R {
	return b.route(http.MethodOptions, path, []handler.Middleware{m})
}

func (b Routable[R]) OptionsWithMany(path string, ms []handler.Middleware) R {
	return b.route(http.MethodOptions, path, ms)
}

func (b Routable[R]) Head(path string, m handler.Middleware) R {
	return b.route(http.MethodHead, path, []handler.Middleware{m})
}

func (b Routable[R]) HeadWithMany(path string, ms []handler.Middleware) R {
	return b.route(http.MethodHead, path, ms)
}
