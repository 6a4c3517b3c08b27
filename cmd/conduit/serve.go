package main

import (
	"context"
	"errors"
	"net"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/conduit/core/app"
	"github.com/dmitrymomot/conduit/core/health"
	"github.com/dmitrymomot/conduit/core/logger"
	"github.com/dmitrymomot/conduit/core/server"
	"github.com/dmitrymomot/conduit/middleware"
)

// Serve starts the demo server.
type Serve struct {
	Host        string `default:"${host}" help:"Interface to bind."`
	Port        int    `default:"${port}" help:"Port to listen on."`
	Static      string `type:"existingdir" help:"Serve this directory under /assets."`
	MetricsAddr string `name:"metrics-addr" help:"Serve /metrics on a separate address instead of the main one."`
}

// Run the serve command.
func (c *Serve) Run(ctx context.Context, cfg *appConfig) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a := newApp(cfg, demoOptions{
		staticDir:     c.Static,
		registry:      reg,
		exposeMetrics: c.MetricsAddr == "",
	})
	log := a.Logger()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Listen(ctx, c.Port, c.Host, func(addr string, err error) {
			if err != nil {
				log.Error("failed to start server", logger.Error(err))
				return
			}
			log.Info("listening", logger.Component("http"), logger.Key("addr", addr))
		})
	})

	if c.MetricsAddr != "" {
		admin := app.New(app.WithLogger(log))
		admin.Get("/metrics", middleware.MetricsHandler(reg))
		admin.Get("/health/live", health.Liveness())

		srv := server.New(c.MetricsAddr,
			server.WithLogger(log.With(logger.Component("admin"))),
			server.WithOnListen(func(addr net.Addr) {
				log.Info("admin listening", logger.Key("addr", addr.String()))
			}),
		)
		g.Go(srv.Run(ctx, admin))
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
