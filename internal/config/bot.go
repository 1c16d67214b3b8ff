package config

import "github.com/caarlos0/env/v11"

type BotConfig struct {
	EconomyURL string `env:"ECONOMY_URL" envDefault:"http://localhost:8090"`
	Rounds     int    `env:"BOT_ROUNDS" envDefault:"10"`
	Wallet     string `env:"BOT_WALLET" envDefault:"0xb07"`
	AdminKey   string `env:"ADMIN_API_KEY"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}
