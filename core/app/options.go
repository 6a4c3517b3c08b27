package app

import (
	"log/slog"

	"github.com/dmitrymomot/conduit/core/cookie"
	"github.com/dmitrymomot/conduit/core/response"
	"github.com/dmitrymomot/conduit/core/server"
)

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger used by the app, its root router and the server.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithEnv sets the environment. Development mode exposes error messages in
// final error responses.
func WithEnv(env Env) Option {
	return func(a *App) {
		a.env = env
	}
}

// WithSigner enables signed cookies.
func WithSigner(s *cookie.Signer) Option {
	return func(a *App) {
		a.signer = s
	}
}

// WithViews sets the engine used by Response.Render.
func WithViews(v response.ViewEngine) Option {
	return func(a *App) {
		a.views = v
	}
}

// WithTrustProxy makes the request view honor X-Forwarded-* headers.
func WithTrustProxy(trust bool) Option {
	return func(a *App) {
		a.trustProxy = trust
	}
}

// WithETag toggles weak ETag generation for buffered responses.
func WithETag(enabled bool) Option {
	return func(a *App) {
		a.etag = enabled
	}
}

// WithServerOptions configures the server started by Listen.
func WithServerOptions(opts ...server.Option) Option {
	return func(a *App) {
		a.serverOpts = append(a.serverOpts, opts...)
	}
}
