package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

// ErrNoTestPostgres reports that integration tests have no database.
var ErrNoTestPostgres = errors.New("TEST_POSTGRES_DSN not set")

// TestConfig points integration tests at a disposable Postgres. Each test
// works in its own schema named SchemaPrefix plus a ULID.
type TestConfig struct {
	PostgresDSN  string `env:"TEST_POSTGRES_DSN"`
	SchemaPrefix string `env:"TEST_SCHEMA_PREFIX" envDefault:"economy_test"`
}

func LoadTest() (TestConfig, error) {
	var cfg TestConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	if cfg.PostgresDSN == "" {
		return cfg, ErrNoTestPostgres
	}
	return cfg, nil
}
