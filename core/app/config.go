package app

import (
	"strings"

	"github.com/dmitrymomot/conduit/core/cookie"
	"github.com/dmitrymomot/conduit/core/logger"
	"github.com/dmitrymomot/conduit/core/server"
)

// Env is the deployment environment.
type Env string

const (
	EnvDevelopment Env = "development"
	EnvProduction  Env = "production"
)

// IsDevelopment reports whether e is the development environment.
func (e Env) IsDevelopment() bool {
	return strings.EqualFold(string(e), string(EnvDevelopment))
}

// Config holds application configuration with environment variable support.
type Config struct {
	Name       string `env:"APP_NAME" envDefault:"conduit"`
	Env        Env    `env:"APP_ENV" envDefault:"production"`
	TrustProxy bool   `env:"APP_TRUST_PROXY" envDefault:"false"`
	ETag       bool   `env:"APP_ETAG" envDefault:"true"`

	Cookie cookie.Config
	Server server.Config
	Log    logger.Config
}

// NewFromConfig creates an App from configuration. Additional options
// override config values. Server timeouts apply to Listen; the address is
// passed to Listen explicitly.
func NewFromConfig(cfg Config, opts ...Option) *App {
	logCfg := cfg.Log
	if logCfg.Service == "" {
		logCfg.Service = cfg.Name
	}
	if cfg.Env != "" {
		logCfg.Env = string(cfg.Env)
	}

	base := []Option{
		WithEnv(cfg.Env),
		WithTrustProxy(cfg.TrustProxy),
		WithETag(cfg.ETag),
		WithLogger(logger.NewFromConfig(logCfg)),
		WithServerOptions(cfg.Server.Options()...),
	}
	if s := cookie.NewSignerFromConfig(cfg.Cookie); s != nil {
		base = append(base, WithSigner(s))
	}

	return New(append(base, opts...)...)
}
