package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadServerDefaults(t *testing.T) {
	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":8090" {
		t.Fatalf("HTTPAddr = %q, want :8090", cfg.HTTPAddr)
	}
	if !cfg.MCPEnabled {
		t.Fatalf("MCPEnabled = false, want true")
	}
}

func TestLoadEconomyDefaults(t *testing.T) {
	cfg, err := LoadEconomy()
	if err != nil {
		t.Fatalf("LoadEconomy() error = %v", err)
	}
	if cfg.DailyClaimBase != 25 || cfg.MintNFTPrice != 250 {
		t.Fatalf("unexpected economy config: %+v", cfg)
	}
	if cfg.StreakCap != 0 || cfg.InitialRole != "fan" {
		t.Fatalf("unexpected economy config: %+v", cfg)
	}
}

func TestLoadEconomyRejectsBadValues(t *testing.T) {
	t.Setenv("INITIAL_ROLE", "owner")
	if _, err := LoadEconomy(); err == nil {
		t.Fatal("LoadEconomy() expected role error, got nil")
	}
	t.Setenv("INITIAL_ROLE", "creator")
	t.Setenv("DAILY_CLAIM_BASE", "-1")
	if _, err := LoadEconomy(); err == nil {
		t.Fatal("LoadEconomy() expected amount error, got nil")
	}
}

func TestLoadStorage(t *testing.T) {
	cfg, err := LoadStorage()
	if err != nil {
		t.Fatalf("LoadStorage() error = %v", err)
	}
	if cfg.Driver != "sqlite" || cfg.FlushInterval() != 500*time.Millisecond {
		t.Fatalf("unexpected storage config: %+v", cfg)
	}

	t.Setenv("STORE_DRIVER", "postgres")
	if _, err := LoadStorage(); err == nil {
		t.Fatal("LoadStorage() expected POSTGRES_DSN error, got nil")
	}
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/economy?sslmode=disable")
	if _, err := LoadStorage(); err != nil {
		t.Fatalf("LoadStorage() error = %v", err)
	}

	t.Setenv("STORE_DRIVER", "etcd")
	if _, err := LoadStorage(); err == nil {
		t.Fatal("LoadStorage() expected driver error, got nil")
	}
}

func TestLoadSync(t *testing.T) {
	cfg, err := LoadSync()
	if err != nil {
		t.Fatalf("LoadSync() error = %v", err)
	}
	if cfg.Enabled() {
		t.Fatalf("sync enabled without REMOTE_BASE_URL")
	}
	t.Setenv("REMOTE_BASE_URL", "https://api.example.com")
	t.Setenv("SYNC_TIMEOUT_MS", "1500")
	cfg, err = LoadSync()
	if err != nil {
		t.Fatalf("LoadSync() error = %v", err)
	}
	if !cfg.Enabled() || cfg.Timeout() != 1500*time.Millisecond {
		t.Fatalf("unexpected sync config: %+v", cfg)
	}
}

func TestLoadBotOverrides(t *testing.T) {
	t.Setenv("ECONOMY_URL", "http://127.0.0.1:9000")
	t.Setenv("BOT_ROUNDS", "3")

	cfg, err := LoadBot()
	if err != nil {
		t.Fatalf("LoadBot() error = %v", err)
	}
	if cfg.EconomyURL != "http://127.0.0.1:9000" || cfg.Rounds != 3 {
		t.Fatalf("unexpected bot config: %+v", cfg)
	}
}

func TestLoadEnvFilesOverlay(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, ".env")
	dev := filepath.Join(dir, ".env.dev")
	if err := os.WriteFile(base, []byte("HTTP_ADDR=:7000\nLOG_LEVEL=warn\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	if err := os.WriteFile(dev, []byte("HTTP_ADDR=:7001\n"), 0o600); err != nil {
		t.Fatalf("write .env.dev: %v", err)
	}
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("LOG_LEVEL", "")

	loaded, err := LoadEnvFiles(base, dev, filepath.Join(dir, "missing"))
	if err != nil {
		t.Fatalf("LoadEnvFiles() error = %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded = %v, want 2 files", loaded)
	}
	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":7001" {
		t.Fatalf("HTTPAddr = %q, want :7001", cfg.HTTPAddr)
	}
}
