package main

import (
	"context"
	"embed"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/conduit/core/app"
	"github.com/dmitrymomot/conduit/core/handler"
	"github.com/dmitrymomot/conduit/core/health"
	"github.com/dmitrymomot/conduit/core/logger"
	"github.com/dmitrymomot/conduit/core/request"
	"github.com/dmitrymomot/conduit/core/response"
	"github.com/dmitrymomot/conduit/core/router"
	"github.com/dmitrymomot/conduit/core/static"
	"github.com/dmitrymomot/conduit/middleware"
	"github.com/dmitrymomot/conduit/pkg/async"
)

//go:embed views/*.html
var viewsFS embed.FS

type demoOptions struct {
	staticDir     string
	registry      prometheus.Registerer
	exposeMetrics bool
}

type userIDKey struct{}

// newApp wires the demo routes. The registry is used both for recording and,
// when exposeMetrics is set, for the /metrics endpoint.
func newApp(cfg *appConfig, opts demoOptions) *app.App {
	views, err := response.NewTemplates(viewsFS, "views/*.html")
	if err != nil {
		panic(err)
	}

	logCfg := cfg.App.Log
	logCfg.Env = string(cfg.App.Env)
	log := logger.NewFromConfig(logCfg, logger.WithContextExtractors(
		middleware.RequestIDExtractor(),
		middleware.TraceIDExtractor(),
	))

	a := app.NewFromConfig(cfg.App, app.WithViews(views), app.WithLogger(log))

	a.Use(middleware.RequestID())
	a.Use(middleware.LoggingWithLogger(log))
	a.Use(middleware.MetricsWithConfig(middleware.MetricsConfig{Registerer: opts.registry}))
	a.Use(middleware.Tracing())
	a.Use(middleware.JSONWithConfig(cfg.Body))
	a.Use(middleware.URLEncodedWithConfig(cfg.Body))
	a.Use(middleware.TextWithConfig(cfg.Body))

	a.Get("/", handler.From(func(next handler.Next, _ *request.Request, res *response.Response) handler.Done {
		done, err := res.Render("index", map[string]any{
			"Name": cfg.App.Name,
			"Env":  cfg.App.Env,
		})
		if err != nil {
			return next.Fail(err)
		}
		return done
	}))
	a.Get("/ping", handler.From(func(_ handler.Next, _ *request.Request, res *response.Response) handler.Done {
		return res.SendString("pong")
	}))
	a.Get("/health/live", health.Liveness())
	a.Get("/health/ready", health.Readiness(log, readinessChecks(opts)...))
	a.Post("/echo", handler.From(echo))

	a.UseRouterOnPath("/api", apiRouter(a))

	if opts.exposeMetrics {
		if g, ok := opts.registry.(prometheus.Gatherer); ok {
			a.Get("/metrics", middleware.MetricsHandler(g))
		}
	}
	if opts.staticDir != "" {
		a.UseOnPath("/assets", static.Serve(opts.staticDir, static.WithMaxAge(time.Hour)))
	}
	return a
}

func apiRouter(a *app.App) *router.Router {
	api := router.New(router.WithLogger(a.Logger()))

	api.Param("id", handler.From(func(next handler.Next, req *request.Request, _ *response.Response) handler.Done {
		raw, _ := req.Param("id")
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return next.Fail(response.ErrBadRequest.WithMessage("id must be a positive integer"))
		}
		req.WithValue(userIDKey{}, id)
		return next.Advance()
	}))

	api.Get("/users/:id", handler.From(func(_ handler.Next, req *request.Request, res *response.Response) handler.Done {
		id, _ := req.Value(userIDKey{}).(int)
		return res.SendJSON(map[string]any{"id": id, "name": "user-" + strconv.Itoa(id)})
	}))

	api.Get("/slow", handler.FromAsync(func(_ handler.Next, req *request.Request, res *response.Response) *async.Future[handler.Done] {
		return async.Go(req.Context(), func(ctx context.Context) (handler.Done, error) {
			select {
			case <-time.After(50 * time.Millisecond):
			case <-ctx.Done():
				return handler.Done{}, ctx.Err()
			}
			return res.SendJSON(map[string]string{"status": "done"}), nil
		})
	}))

	return api
}

// readinessChecks reports the demo not ready when the static directory
// disappears.
func readinessChecks(opts demoOptions) []func(context.Context) error {
	if opts.staticDir == "" {
		return nil
	}
	return []func(context.Context) error{
		func(context.Context) error {
			_, err := os.Stat(opts.staticDir)
			return err
		},
	}
}

// echo answers with whichever body a parser attached.
func echo(next handler.Next, req *request.Request, res *response.Response) handler.Done {
	if b, ok := req.BodyJSON(); ok {
		return res.SetType("application/json").SendBuffer(b)
	}
	if form, ok := req.BodyForm(); ok {
		return res.SendJSON(form)
	}
	if text, ok := req.BodyText(); ok {
		return res.SetType("text/plain").SendString(text)
	}
	return next.Fail(response.ErrUnsupportedMediaType)
}
