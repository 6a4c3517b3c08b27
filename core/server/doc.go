// Package server runs an http.Handler on a TCP listener with graceful
// shutdown.
//
// The listener is bound before serving starts, so callers learn the actual
// address (useful with port 0) through WithOnListen or Addr:
//
//	srv := server.New(":0",
//		server.WithLogger(log),
//		server.WithOnListen(func(addr net.Addr) {
//			log.Info("listening", "addr", addr.String())
//		}),
//	)
//	if err := srv.Start(ctx, handler); err != nil {
//		log.Error("server failed", "error", err)
//	}
//
// Start blocks until ctx is cancelled and then shuts the server down,
// waiting up to the shutdown timeout for in-flight requests. Run adapts
// Start for errgroup:
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, handler))
//
// Configuration can be loaded from the environment:
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//	srv, err := server.NewFromConfig(cfg)
//
// Environment variables:
//
//	SERVER_HOST                 bind host (default all interfaces)
//	SERVER_PORT                 bind port (default 8080)
//	SERVER_READ_TIMEOUT         default 15s
//	SERVER_READ_HEADER_TIMEOUT  default 5s
//	SERVER_WRITE_TIMEOUT        default 15s
//	SERVER_IDLE_TIMEOUT         default 60s
//	SERVER_SHUTDOWN_TIMEOUT     default 30s
//	SERVER_MAX_HEADER_BYTES     default 1048576
package server
