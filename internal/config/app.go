package config

type AppConfig struct {
	Server  ServerConfig
	Log     LogConfig
	Economy EconomyConfig
	Storage StorageConfig
	Sync    SyncConfig
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	economyCfg, err := LoadEconomy()
	if err != nil {
		return AppConfig{}, err
	}
	storageCfg, err := LoadStorage()
	if err != nil {
		return AppConfig{}, err
	}
	syncCfg, err := LoadSync()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server:  serverCfg,
		Log:     logCfg,
		Economy: economyCfg,
		Storage: storageCfg,
		Sync:    syncCfg,
	}, nil
}
