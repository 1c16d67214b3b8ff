package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type EconomyConfig struct {
	DailyClaimBase int64  `env:"DAILY_CLAIM_BASE" envDefault:"25"`
	StreakAdd      int64  `env:"DAILY_STREAK_ADD" envDefault:"0"`
	StreakCap      int    `env:"DAILY_STREAK_CAP" envDefault:"0"`
	MintNFTPrice   int64  `env:"MINT_NFT_PRICE" envDefault:"250"`
	InitialBalance int64  `env:"INITIAL_BALANCE" envDefault:"0"`
	LocalTimezone  string `env:"LOCAL_TIMEZONE" envDefault:"Local"`
	InitialRole    string `env:"INITIAL_ROLE" envDefault:"fan"`
}

func LoadEconomy() (EconomyConfig, error) {
	var cfg EconomyConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	if cfg.DailyClaimBase < 0 || cfg.StreakAdd < 0 || cfg.StreakCap < 0 || cfg.MintNFTPrice < 0 || cfg.InitialBalance < 0 {
		return cfg, fmt.Errorf("economy amounts must not be negative")
	}
	switch cfg.InitialRole {
	case "fan", "creator", "admin":
	default:
		return cfg, fmt.Errorf("INITIAL_ROLE %q must be fan, creator or admin", cfg.InitialRole)
	}
	return cfg, nil
}
