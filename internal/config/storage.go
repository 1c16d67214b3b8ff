package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type StorageConfig struct {
	Driver          string `env:"STORE_DRIVER" envDefault:"sqlite"`
	SQLitePath      string `env:"SQLITE_PATH" envDefault:"data/economy.db"`
	PostgresDSN     string `env:"POSTGRES_DSN"`
	RedisAddr       string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	StateKey        string `env:"STATE_KEY" envDefault:"gold-economy.state"`
	FlushIntervalMS int    `env:"FLUSH_INTERVAL_MS" envDefault:"500"`
}

func (c StorageConfig) FlushInterval() time.Duration {
	return time.Duration(c.FlushIntervalMS) * time.Millisecond
}

func LoadStorage() (StorageConfig, error) {
	var cfg StorageConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	switch cfg.Driver {
	case "sqlite", "redis", "memory":
	case "postgres":
		if cfg.PostgresDSN == "" {
			return cfg, fmt.Errorf("POSTGRES_DSN is required for STORE_DRIVER=postgres")
		}
	default:
		return cfg, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Driver)
	}
	if cfg.FlushIntervalMS <= 0 {
		return cfg, fmt.Errorf("FLUSH_INTERVAL_MS must be positive")
	}
	return cfg, nil
}
