package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/conduit/core/bytesize"
	"github.com/dmitrymomot/conduit/core/config"
)

type serviceConfig struct {
	Name    string         `env:"CONFIG_TEST_NAME" envDefault:"conduit"`
	Timeout time.Duration  `env:"CONFIG_TEST_TIMEOUT" envDefault:"5s"`
	Limit   bytesize.Limit `env:"CONFIG_TEST_LIMIT" envDefault:"1.5mb"`
}

type cachedConfig struct {
	Value string `env:"CONFIG_TEST_CACHED"`
}

type requiredConfig struct {
	Secret string `env:"CONFIG_TEST_REQUIRED,required"`
}

func TestLoad(t *testing.T) {
	t.Setenv("CONFIG_TEST_NAME", "api")
	t.Setenv("CONFIG_TEST_TIMEOUT", "2s")

	var cfg serviceConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "api", cfg.Name)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, bytesize.Mb(1.5), cfg.Limit)
}

func TestLoadCaches(t *testing.T) {
	t.Setenv("CONFIG_TEST_CACHED", "first")

	var a cachedConfig
	require.NoError(t, config.Load(&a))

	t.Setenv("CONFIG_TEST_CACHED", "second")
	var b cachedConfig
	require.NoError(t, config.Load(&b))

	assert.Equal(t, "first", a.Value)
	assert.Equal(t, a, b)
}

func TestLoadErrors(t *testing.T) {
	var missing requiredConfig
	assert.Error(t, config.Load(&missing))
	assert.Panics(t, func() { config.MustLoad(&missing) })

	var n int
	assert.ErrorIs(t, config.Load(&n), config.ErrNotStructPointer)

	var nilCfg *serviceConfig
	assert.ErrorIs(t, config.Load(nilCfg), config.ErrNotStructPointer)
}
