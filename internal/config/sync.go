package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type SyncConfig struct {
	RemoteBaseURL  string `env:"REMOTE_BASE_URL"`
	RemoteToken    string `env:"REMOTE_TOKEN"`
	IntervalMS     int    `env:"SYNC_INTERVAL_MS" envDefault:"60000"`
	TimeoutMS      int    `env:"SYNC_TIMEOUT_MS" envDefault:"5000"`
	RetryMax       int    `env:"SYNC_RETRY_MAX" envDefault:"2"`
	RetryBaseMS    int    `env:"SYNC_RETRY_BASE_MS" envDefault:"200"`
	EventsEnabled  bool   `env:"EVENTS_ENABLED" envDefault:"true"`
	EventsBuffer   int    `env:"EVENTS_BUFFER" envDefault:"256"`
	EventsRetryMax int    `env:"EVENTS_RETRY_MAX" envDefault:"3"`
}

// Enabled reports whether a remote backend is configured.
func (c SyncConfig) Enabled() bool {
	return c.RemoteBaseURL != ""
}

func (c SyncConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

func (c SyncConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

func (c SyncConfig) RetryBase() time.Duration {
	return time.Duration(c.RetryBaseMS) * time.Millisecond
}

func LoadSync() (SyncConfig, error) {
	var cfg SyncConfig
	err := env.Parse(&cfg)
	return cfg, err
}
