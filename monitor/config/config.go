package config

import (
	"github.com/lilfrag140-ops/arcane-arsenal-v3/config"
)

type Config struct {
	DB             config.DBConfig        `yaml:"db"`
	Logger         config.LoggerConfig    `yaml:"logger"`
	Metrics        MetricsConfig          `yaml:"metrics"`
	Coins          config.CoinsConfig     `yaml:"coins"`
	Providers      config.ProvidersConfig `yaml:"providers"`
	SweeperCronjob CronjobConfig          `yaml:"sweeper_cronjob"`
	SettlerCronjob CronjobConfig          `yaml:"settler_cronjob"`
}

type MetricsConfig struct {
	PrometheusAddress string `yaml:"prometheus_address" envconfig:"PROMETHEUS_ADDRESS"`
}

type CronjobConfig struct {
	Enabled           bool `yaml:"enabled"`
	TimeoutSeconds    int  `yaml:"timeout_seconds"`
	RequestsPerSecond int  `yaml:"requests_per_second"`
}

func newConfig() *Config {
	return &Config{
		Coins:     config.DefaultCoins(),
		Providers: config.DefaultProviders(),
		SweeperCronjob: CronjobConfig{
			Enabled:           true,
			TimeoutSeconds:    30,
			RequestsPerSecond: 4,
		},
		// Expiry settlement keeps running even when every provider is down.
		SettlerCronjob: CronjobConfig{
			Enabled:        true,
			TimeoutSeconds: 60,
		},
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
