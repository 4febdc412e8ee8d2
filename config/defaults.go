package config

import "github.com/shopspring/decimal"

// Defaults mirror the operator-facing production settings. Everything here
// can be overridden from config.yml; keys always come from the environment.

func DefaultCoins() CoinsConfig {
	return CoinsConfig{
		"BTC": {
			Network:       "mainnet",
			Confirmations: 2,
			EstimatedFee:  decimal.RequireFromString("0.0001"),
		},
		"LTC": {
			Network:       "mainnet",
			Confirmations: 3,
			EstimatedFee:  decimal.RequireFromString("0.001"),
		},
		"ETH": {
			Network:       "mainnet",
			Confirmations: 12,
			EstimatedFee:  decimal.RequireFromString("0.002"),
		},
		"USDT": {
			Network:         "mainnet",
			Confirmations:   12,
			EstimatedFee:    decimal.RequireFromString("15"),
			ContractAddress: "0xdAC17F958D2ee523a2206206994597C13D831ec7",
			TokenDecimals:   6,
		},
		"USDC": {
			Network:         "mainnet",
			Confirmations:   12,
			EstimatedFee:    decimal.RequireFromString("15"),
			ContractAddress: "0xA0b86a33E6441b4c25a2C5a6B1e5bD1BF4CeAc92",
			TokenDecimals:   6,
		},
		"SOL": {
			Network:       "mainnet",
			Confirmations: 32,
			EstimatedFee:  decimal.RequireFromString("0.0025"),
		},
	}
}

func DefaultProviders() ProvidersConfig {
	return ProvidersConfig{
		Bitcoin: []string{
			"https://blockstream.info/api",
			"https://mempool.space/api",
			"https://api.blockcypher.com/v1/btc/main",
		},
		Litecoin: []string{
			"https://api.blockcypher.com/v1/ltc/main",
		},
		Ethereum: []string{
			"https://api.etherscan.io/api",
		},
		Solana: []string{
			"https://api.mainnet-beta.solana.com",
			"https://solana-api.projectserum.com",
		},
		TimeoutMillis: 10000,
	}
}

func DefaultPricing() PricingConfig {
	return PricingConfig{
		CoinGeckoURL:  "https://api.coingecko.com/api/v3/simple/price",
		CoinbaseURL:   "https://api.coinbase.com/v2/exchange-rates",
		TimeoutMillis: 5000,
		// Last-resort prices. A sale is never blocked on price-feed
		// unavailability, at the cost of possibly stale rates.
		Fallback: map[string]decimal.Decimal{
			"BTC":  decimal.NewFromInt(43000),
			"LTC":  decimal.NewFromInt(75),
			"ETH":  decimal.NewFromInt(2500),
			"USDT": decimal.NewFromInt(1),
			"USDC": decimal.NewFromInt(1),
			"SOL":  decimal.NewFromInt(90),
		},
	}
}

func DefaultCheckout() CheckoutConfig {
	return CheckoutConfig{
		ExpiryMinutes:      15,
		TopUpWindowMinutes: 45,
	}
}
