package app

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/conduit/core/cookie"
	"github.com/dmitrymomot/conduit/core/handler"
	"github.com/dmitrymomot/conduit/core/logger"
	"github.com/dmitrymomot/conduit/core/request"
	"github.com/dmitrymomot/conduit/core/response"
	"github.com/dmitrymomot/conduit/core/routable"
	"github.com/dmitrymomot/conduit/core/router"
	"github.com/dmitrymomot/conduit/core/server"
)

// App is the top of a pipeline: a root router, the final handler that
// answers requests nothing else finalized, and the HTTP listener.
type App struct {
	routable.Routable[*App]

	root       *router.Router
	logger     *slog.Logger
	signer     *cookie.Signer
	views      response.ViewEngine
	env        Env
	trustProxy bool
	etag       bool
	serverOpts []server.Option
}

// New creates an application. Without options it runs in production mode
// with ETags enabled and a discarding logger.
func New(opts ...Option) *App {
	a := &App{
		logger: logger.Discard(),
		env:    EnvProduction,
		etag:   true,
	}
	a.Routable = routable.New(a)
	for _, opt := range opts {
		opt(a)
	}
	a.root = router.New(router.WithLogger(a.logger))
	return a
}

// Register adds a route to the root router.
func (a *App) Register(method, path string, mws []handler.Middleware) {
	a.root.Register(method, path, mws)
}

// RegisterUse adds prefix middleware to the root router.
func (a *App) RegisterUse(path string, mws []handler.Middleware) {
	a.root.RegisterUse(path, mws)
}

// RegisterParam adds a parameter callback to the root router.
func (a *App) RegisterParam(name string, mw handler.Middleware) {
	a.root.RegisterParam(name, mw)
}

// UseRouter mounts rt at the root.
func (a *App) UseRouter(rt *router.Router) *App {
	return a.UseRouterOnPath("/", rt)
}

// UseRouterOnPath mounts rt at path. Inside rt, Path is relative to path.
func (a *App) UseRouterOnPath(path string, rt *router.Router) *App {
	a.root.Mount(path, rt)
	return a
}

// AsMiddleware lets the app be mounted inside another app or router. The
// mounted app's final handler does not run; unhandled requests and errors
// continue in the parent.
func (a *App) AsMiddleware() handler.Middleware {
	return a.root.AsMiddleware()
}

// Routes lists the routes registered directly on the app.
func (a *App) Routes() []router.RouteInfo {
	return a.root.Routes()
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// ServeHTTP runs the pipeline for one request.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := request.New(r,
		request.WithSigner(a.signer),
		request.WithTrustProxy(a.trustProxy),
	)
	res := response.New(w, req,
		response.WithSigner(a.signer),
		response.WithViews(a.views),
		response.WithETag(a.etag),
	)
	req.SetResponse(res)

	defer func() {
		if p := recover(); p != nil {
			a.recoverTop(p, req, res)
		}
	}()

	final := a.finalHandler(req, res)
	done := a.root.Dispatch(final, req, res)
	if done.Valid() {
		return
	}

	a.logger.ErrorContext(req.Context(), "handler returned an invalid completion token",
		logger.Method(req.Method()),
		logger.Path(req.OriginalURL()),
	)
	if !res.Finished() {
		final(handler.Fail(handler.ErrIncomplete))
	}
}

// Handler returns the app as an http.Handler.
func (a *App) Handler() http.Handler {
	return a
}

func (a *App) recoverTop(p any, req *request.Request, res *response.Response) {
	perr := handler.NewPanicError(p)
	a.logger.ErrorContext(req.Context(), "unrecovered panic",
		logger.Error(perr),
		logger.Method(req.Method()),
		logger.Path(req.OriginalURL()),
		logger.Stack(perr.Stack()),
	)
	if !res.Finished() && !res.HeadersSent() {
		res.SendStatus(http.StatusInternalServerError)
	}
}
