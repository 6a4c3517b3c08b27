// Command conduit runs a demo server built on the conduit framework.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/dmitrymomot/conduit/core/app"
	"github.com/dmitrymomot/conduit/core/config"
	"github.com/dmitrymomot/conduit/middleware"
)

var version = "dev"

// appConfig is everything the demo reads from the environment.
type appConfig struct {
	App  app.Config
	Body middleware.BodyParserConfig
}

// CLI is the command line interface of the demo server.
type CLI struct {
	Serve   Serve            `kong:"cmd,help='Start the web server.'"`
	Routes  Routes           `kong:"cmd,help='List the registered routes.'"`
	Version kong.VersionFlag `kong:"help='Output version and exit.'"`
}

func main() {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "conduit: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("conduit"),
		kong.Description("Demo server for the conduit web framework."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		kong.Vars{
			"version": version,
			"host":    cfg.App.Server.Host,
			"port":    strconv.Itoa(cfg.App.Server.Port),
		},
		kong.Bind(&cfg),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	kctx.FatalIfErrorf(kctx.Run())
}
