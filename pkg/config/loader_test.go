package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acme/gemaelde/pkg/config"
)

type cachedConfig struct {
	Database string `env:"CONFIG_TEST_DATABASE" envDefault:"gemaelde"`
	Populate bool   `env:"CONFIG_TEST_POPULATE"`
}

type requiredConfig struct {
	URI string `env:"CONFIG_TEST_URI,required"`
}

type parsedConfig struct {
	Port int `env:"CONFIG_TEST_PORT" envDefault:"3000"`
}

func TestLoad(t *testing.T) {
	t.Setenv("CONFIG_TEST_POPULATE", "true")

	var first cachedConfig
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "gemaelde", first.Database)
	assert.True(t, first.Populate)

	t.Setenv("CONFIG_TEST_DATABASE", "other")

	var second cachedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "gemaelde", second.Database, "second load must come from the cache")
}

func TestLoad_Errors(t *testing.T) {
	var cfg requiredConfig
	err := config.Load(&cfg)
	require.ErrorIs(t, err, config.ErrParsingConfig)

	assert.ErrorIs(t, config.Load[requiredConfig](nil), config.ErrNilPointer)
	assert.Panics(t, func() { config.MustLoad(&requiredConfig{}) })
}

func TestParse(t *testing.T) {
	t.Setenv("CONFIG_TEST_PORT", "8080")

	var cfg parsedConfig
	require.NoError(t, config.Parse(&cfg))
	assert.Equal(t, 8080, cfg.Port)

	t.Setenv("CONFIG_TEST_PORT", "not-a-number")
	assert.ErrorIs(t, config.Parse(&cfg), config.ErrParsingConfig)
}
