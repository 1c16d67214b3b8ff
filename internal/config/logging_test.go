package config

import "testing"

func TestLoadLog(t *testing.T) {
	cases := []struct {
		name    string
		env     map[string]string
		level   string
		service string
		maxMB   int
	}{
		{name: "defaults", level: "info", service: "gold-economy", maxMB: 10},
		{
			name:    "overrides",
			env:     map[string]string{"LOG_LEVEL": "debug", "LOG_SERVICE": "economy-bot", "LOG_MAX_MB": "2"},
			level:   "debug",
			service: "economy-bot",
			maxMB:   2,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadLog()
			if err != nil {
				t.Fatalf("LoadLog() error = %v", err)
			}
			if cfg.Level != tc.level || cfg.Service != tc.service || cfg.MaxMB != tc.maxMB {
				t.Fatalf("LoadLog() = %+v, want level=%s service=%s maxMB=%d", cfg, tc.level, tc.service, tc.maxMB)
			}
		})
	}
}
