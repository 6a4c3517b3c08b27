package router

import (
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/dmitrymomot/conduit/core/handler"
	"github.com/dmitrymomot/conduit/core/logger"
	"github.com/dmitrymomot/conduit/core/request"
	"github.com/dmitrymomot/conduit/core/response"
	"github.com/dmitrymomot/conduit/core/routable"
	"github.com/dmitrymomot/conduit/internal/proof"
)

// Router is an ordered stack of layers. Requests walk the stack in
// registration order; each matching layer runs until one finalizes the
// response or the stack is exhausted, in which case control returns to the
// parent pipeline.
type Router struct {
	routable.Routable[*Router]

	stack       []*layer
	params      map[string][]handler.Middleware
	logger      *slog.Logger
	mergeParams bool
}

// New creates an empty router.
func New(opts ...Option) *Router {
	r := &Router{
		params: make(map[string][]handler.Middleware),
		logger: logger.Discard(),
	}
	r.Routable = routable.New(r)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a route layer.
func (r *Router) Register(method, path string, mws []handler.Middleware) {
	if len(mws) == 0 {
		panic(ErrNoHandlers)
	}
	r.stack = append(r.stack, newRouteLayer(strings.ToUpper(method), path, slices.Clone(mws)))
}

// RegisterUse adds one prefix layer per middleware.
func (r *Router) RegisterUse(path string, mws []handler.Middleware) {
	for _, mw := range mws {
		r.stack = append(r.stack, newUseLayer(path, mw))
	}
}

// RegisterParam adds a parameter callback.
func (r *Router) RegisterParam(name string, mw handler.Middleware) {
	r.params[name] = append(r.params[name], mw)
}

// Mount registers sub under path.
func (r *Router) Mount(path string, sub *Router) *Router {
	if sub == nil {
		panic(ErrNilRouter)
	}
	l := newUseLayer(path, sub.AsMiddleware())
	l.sub = sub
	r.stack = append(r.stack, l)
	return r
}

// AsMiddleware lets the router be used inside another router or app.
func (r *Router) AsMiddleware() handler.Middleware {
	return handler.From(r.Dispatch)
}

// RouteInfo describes a registered route.
type RouteInfo struct {
	Method string
	Path   string
}

// Routes lists the registered routes, including those of routers attached
// with Mount, in registration order.
func (r *Router) Routes() []RouteInfo {
	var out []RouteInfo
	for _, l := range r.stack {
		switch {
		case l.route != nil:
			out = append(out, RouteInfo{Method: l.route.method, Path: l.path})
		case l.sub != nil:
			prefix := strings.TrimSuffix(l.path, "/")
			for _, ri := range l.sub.Routes() {
				ri.Path = prefix + ri.Path
				out = append(out, ri)
			}
		}
	}
	return out
}

// Dispatch walks the stack for one request. out is called when the stack is
// exhausted or a middleware sends SkipRouter.
func (r *Router) Dispatch(out handler.Next, req *request.Request, res *response.Response) handler.Done {
	parentParams := req.Params()
	called := make(map[string]string)
	var allowed []string
	idx := 0

	leave := func(sig handler.Signal) handler.Done {
		req.SetParams(parentParams)
		if !sig.IsError() {
			sig = handler.Advance()
		}
		return out(sig)
	}

	var next handler.Next
	next = func(sig handler.Signal) handler.Done {
		if sig.IsSkipRouter() {
			return leave(sig)
		}
		err := sig.Err()

		for idx < len(r.stack) {
			l := r.stack[idx]
			idx++

			m, ok := l.match(req.EscapedPath())
			if !ok {
				continue
			}
			if l.route != nil {
				if err != nil {
					continue
				}
				allowed = appendAllowed(allowed, l.route.method)
				if !l.route.handles(req.Method()) {
					continue
				}
			} else if (err != nil) != l.mw.HandlesErrors() {
				continue
			}

			req.SetParams(r.layerParams(parentParams, m.params))
			return r.processParams(m.keys, called, req, res, next, func() handler.Done {
				return r.handleLayer(l, m, err, req, res, next)
			})
		}

		if err == nil && req.Method() == http.MethodOptions && len(allowed) > 0 && !res.Finished() {
			joined := strings.Join(allowed, ",")
			return res.SetHeader("Allow", joined).SetType("text/plain; charset=utf-8").SendString(joined)
		}
		return leave(sig)
	}

	return next(handler.Advance())
}

func (r *Router) layerParams(parent, own map[string]string) map[string]string {
	if !r.mergeParams || len(parent) == 0 {
		return own
	}
	merged := maps.Clone(parent)
	maps.Copy(merged, own)
	return merged
}

func (r *Router) handleLayer(l *layer, m match, err error, req *request.Request, res *response.Response, next handler.Next) handler.Done {
	if l.route != nil {
		return r.dispatchRoute(l.route, req, res, next)
	}

	restore := req.Mount(m.base, m.rest)
	resume := func(sig handler.Signal) handler.Done {
		restore()
		return next(sig)
	}

	mw := l.mw
	if err != nil {
		return r.invoke(func(n handler.Next) handler.Done {
			return mw.ServeError(n, err, req, res)
		}, resume, req, res)
	}
	return r.invoke(func(n handler.Next) handler.Done {
		return mw.Serve(n, req, res)
	}, resume, req, res)
}

// dispatchRoute runs a route's handlers in order. SkipRoute leaves the route.
func (r *Router) dispatchRoute(rt *route, req *request.Request, res *response.Response, out handler.Next) handler.Done {
	idx := 0
	var next handler.Next
	next = func(sig handler.Signal) handler.Done {
		switch {
		case sig.IsSkipRoute():
			return out(handler.Advance())
		case sig.IsSkipRouter():
			return out(sig)
		}
		err := sig.Err()

		for idx < len(rt.handlers) {
			mw := rt.handlers[idx]
			idx++
			if (err != nil) != mw.HandlesErrors() {
				continue
			}
			if err != nil {
				return r.invoke(func(n handler.Next) handler.Done {
					return mw.ServeError(n, err, req, res)
				}, next, req, res)
			}
			return r.invoke(func(n handler.Next) handler.Done {
				return mw.Serve(n, req, res)
			}, next, req, res)
		}
		return out(sig)
	}
	return next(handler.Advance())
}

// processParams runs the parameter callbacks for keys, each at most once per
// parameter value per request, then calls then.
func (r *Router) processParams(keys []string, called map[string]string, req *request.Request, res *response.Response, next handler.Next, then func() handler.Done) handler.Done {
	if len(r.params) == 0 || len(keys) == 0 {
		return then()
	}

	var step func(i int) handler.Done
	step = func(i int) handler.Done {
		for ; i < len(keys); i++ {
			key := keys[i]
			fns := r.params[key]
			if len(fns) == 0 {
				continue
			}
			value, _ := req.Param(key)
			if prev, ok := called[key]; ok && prev == value {
				continue
			}
			called[key] = value

			following := i + 1
			return r.runParam(fns, 0, req, res, next, func() handler.Done {
				return step(following)
			})
		}
		return then()
	}
	return step(0)
}

func (r *Router) runParam(fns []handler.Middleware, j int, req *request.Request, res *response.Response, next handler.Next, cont func() handler.Done) handler.Done {
	mw := fns[j]
	return r.invoke(func(n handler.Next) handler.Done {
		return mw.Serve(n, req, res)
	}, func(sig handler.Signal) handler.Done {
		if !sig.IsAdvance() {
			return next(sig)
		}
		if j+1 < len(fns) {
			return r.runParam(fns, j+1, req, res, next, cont)
		}
		return cont()
	}, req, res)
}

// invoke is the fault boundary around one middleware activation. It hands
// the middleware a once-only continuation and turns a panic into an error
// for the error chain, unless the response is already underway.
func (r *Router) invoke(run func(handler.Next) handler.Done, next handler.Next, req *request.Request, res *response.Response) (done handler.Done) {
	g := &guard{next: next, logger: r.logger, req: req}

	defer func() {
		p := recover()
		if p == nil {
			return
		}
		perr := handler.NewPanicError(p)

		switch {
		case res.Finished() || res.HeadersSent():
			r.logger.ErrorContext(req.Context(), "panic after response written",
				logger.Error(perr),
				logger.Method(req.Method()),
				logger.Path(req.OriginalURL()),
				logger.StatusCode(res.StatusCode()),
				logger.Stack(perr.Stack()),
			)
			done = proof.Seal()
		case g.called:
			r.logger.ErrorContext(req.Context(), "panic after next was called",
				logger.Error(perr),
				logger.Method(req.Method()),
				logger.Path(req.OriginalURL()),
				logger.Stack(perr.Stack()),
			)
			done = g.result
		default:
			done = g.call(handler.Fail(perr))
		}
	}()

	return run(g.call)
}

type guard struct {
	next   handler.Next
	logger *slog.Logger
	req    *request.Request
	called bool
	result handler.Done
}

func (g *guard) call(sig handler.Signal) handler.Done {
	if g.called {
		g.logger.WarnContext(g.req.Context(), "next called more than once",
			logger.Method(g.req.Method()),
			logger.Path(g.req.OriginalURL()),
			logger.Key("signal", sig.String()),
		)
		return g.result
	}
	g.called = true
	g.result = g.next(sig)
	return g.result
}

func appendAllowed(allowed []string, method string) []string {
	if method == routable.AnyMethod {
		return allowed
	}
	add := []string{method}
	if method == http.MethodGet {
		add = append(add, http.MethodHead)
	}
	for _, m := range add {
		if !slices.Contains(allowed, m) {
			allowed = append(allowed, m)
		}
	}
	return allowed
}
