package config

import (
	"github.com/lilfrag140-ops/arcane-arsenal-v3/config"
)

type Config struct {
	DB        config.DBConfig        `yaml:"db"`
	Logger    config.LoggerConfig    `yaml:"logger"`
	Services  ServicesConfig         `yaml:"services"`
	Coins     config.CoinsConfig     `yaml:"coins"`
	Providers config.ProvidersConfig `yaml:"providers"`
	Pricing   config.PricingConfig   `yaml:"pricing"`
	Checkout  config.CheckoutConfig  `yaml:"checkout"`
}

type ServicesConfig struct {
	Address string `yaml:"address"`
	// Key for the operational endpoints (manual sweeps). Empty disables them.
	AdminAPIKey string `yaml:"admin_api_key" envconfig:"ADMIN_API_KEY"`
}

func newConfig() *Config {
	return &Config{
		Services: ServicesConfig{
			Address: "localhost:8000",
		},
		Coins:     config.DefaultCoins(),
		Providers: config.DefaultProviders(),
		Pricing:   config.DefaultPricing(),
		Checkout:  config.DefaultCheckout(),
	}
}

func (c Config) LoggerConfig() config.LoggerConfig {
	return c.Logger
}

func BuildConfig() (*Config, error) {
	cfg := newConfig()
	err := config.ParseConfigFile(cfg, config.ConfigFile, false)
	if err != nil {
		return nil, err
	}
	err = config.ParseConfigFile(cfg, config.LocalConfigFile, true)
	if err != nil {
		return nil, err
	}
	err = config.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
