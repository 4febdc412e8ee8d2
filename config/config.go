package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	ConfigFile      = "config.yml"
	LocalConfigFile = "config.local.yml"
)

type DBConfig struct {
	Host       string `yaml:"host" envconfig:"DB_HOST"`
	Port       int    `yaml:"port" envconfig:"DB_PORT"`
	Database   string `yaml:"database" envconfig:"DB_DATABASE"`
	Username   string `yaml:"username" envconfig:"DB_USERNAME"`
	Password   string `yaml:"password" envconfig:"DB_PASSWORD"`
	LogQueries bool   `yaml:"log_queries"`
}

type LoggerConfig struct {
	Level   string `yaml:"level" envconfig:"LOGGER_LEVEL"`
	Console bool   `yaml:"console"`
}

// CoinConfig holds the per-coin signing and payment parameters. Extended
// public keys (xpub/ypub/zpub/Ltub) are used for the UTXO coins, plain
// public keys for the account-based chains.
type CoinConfig struct {
	ExtendedPublicKey string          `yaml:"extended_public_key"`
	PublicKey         string          `yaml:"public_key"`
	Network           string          `yaml:"network"`
	Confirmations     int64           `yaml:"confirmations"`
	EstimatedFee      decimal.Decimal `yaml:"estimated_fee"`
	ContractAddress   string          `yaml:"contract_address"`
	TokenDecimals     int32           `yaml:"token_decimals"`
}

// SigningKey returns whichever key material is configured for the coin.
func (c CoinConfig) SigningKey() string {
	if c.ExtendedPublicKey != "" {
		return c.ExtendedPublicKey
	}
	return c.PublicKey
}

type CoinsConfig map[string]CoinConfig

type ProvidersConfig struct {
	Bitcoin           []string `yaml:"bitcoin"`
	Litecoin          []string `yaml:"litecoin"`
	Ethereum          []string `yaml:"ethereum"`
	Solana            []string `yaml:"solana"`
	BlockCypherAPIKey string   `yaml:"blockcypher_api_key" envconfig:"BLOCKCYPHER_API_KEY"`
	EtherscanAPIKey   string   `yaml:"etherscan_api_key" envconfig:"ETHERSCAN_API_KEY"`
	TimeoutMillis     int      `yaml:"timeout_millis"`
}

type PricingConfig struct {
	CoinGeckoURL  string                     `yaml:"coingecko_url"`
	CoinbaseURL   string                     `yaml:"coinbase_url"`
	TimeoutMillis int                        `yaml:"timeout_millis"`
	Fallback      map[string]decimal.Decimal `yaml:"fallback"`
}

type CheckoutConfig struct {
	ExpiryMinutes      int `yaml:"expiry_minutes"`
	TopUpWindowMinutes int `yaml:"top_up_window_minutes"`
}

func ParseConfigFile(cfg interface{}, fileName string, allowMissing bool) error {
	f, err := os.Open(fileName)
	if err != nil {
		if allowMissing && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("error opening config file: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	err = decoder.Decode(cfg)
	if err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}
	return nil
}

func ReadEnv(cfg interface{}) error {
	err := envconfig.Process("", cfg)
	if err != nil {
		return fmt.Errorf("error reading env config: %w", err)
	}
	return nil
}
