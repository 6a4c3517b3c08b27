package app

import (
	"context"
	"errors"
	"net"
	"strconv"

	"github.com/dmitrymomot/conduit/core/server"
)

// Listen serves the app on hostname:port until ctx is done, then shuts down
// gracefully. Port 0 binds a random free port. onListen, if not nil, is
// called once with the bound address, or with the error if the listener
// could not be opened.
func (a *App) Listen(ctx context.Context, port int, hostname string, onListen func(addr string, err error)) error {
	if port < 0 || port > 65535 {
		if onListen != nil {
			onListen("", server.ErrInvalidPort)
		}
		return server.ErrInvalidPort
	}

	opts := append([]server.Option{server.WithLogger(a.logger)}, a.serverOpts...)
	if onListen != nil {
		opts = append(opts, server.WithOnListen(func(addr net.Addr) {
			onListen(addr.String(), nil)
		}))
	}

	srv := server.New(net.JoinHostPort(hostname, strconv.Itoa(port)), opts...)
	err := srv.Start(ctx, a)
	if err != nil && onListen != nil && errors.Is(err, server.ErrListen) {
		onListen("", err)
	}
	return err
}
