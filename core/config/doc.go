// Package config loads environment-backed configuration structs.
//
// Fields are declared with caarlos0/env tags. A .env file in the working
// directory is applied once, on the first Load, without overriding variables
// that are already set.
//
//	var srv server.Config
//	config.MustLoad(&srv)
//
//	var cfg app.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// Each struct type is parsed once per process. Later calls for the same type
// copy the cached value, even if the environment changed in between; use a
// distinct type when a fresh read is needed.
//
// Types implementing encoding.TextUnmarshaler, such as bytesize.Limit, can
// be used as field types:
//
//	type Limits struct {
//		Body bytesize.Limit `env:"BODY_LIMIT" envDefault:"100kb"`
//	}
package config
