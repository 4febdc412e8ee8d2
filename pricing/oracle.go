package pricing

import (
	"context"
	"net/http"
	"time"

	"github.com/lilfrag140-ops/arcane-arsenal-v3/config"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/logger"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// FallbackSource is recorded in price snapshots when every provider failed.
const FallbackSource = "fallback"

var ErrPriceUnavailable = errors.New("price unavailable")

type PriceProvider interface {
	Name() string
	// FetchPrices returns the current USD price for each requested coin
	// symbol. A provider may return a partial map; the oracle rejects it.
	FetchPrices(ctx context.Context, coins []string) (map[string]decimal.Decimal, error)
}

// Oracle queries an ordered provider list; the first complete, strictly
// positive price table wins. If every provider fails the static fallback
// table is used so a sale is never blocked on feed unavailability.
type Oracle struct {
	providers []PriceProvider
	fallback  map[string]decimal.Decimal
}

func NewOracle(cfg config.PricingConfig) *Oracle {
	client := &http.Client{
		Timeout: time.Duration(cfg.TimeoutMillis) * time.Millisecond,
	}
	return &Oracle{
		providers: []PriceProvider{
			NewCoinGeckoProvider(cfg.CoinGeckoURL, client),
			NewCoinbaseProvider(cfg.CoinbaseURL, client),
		},
		fallback: cfg.Fallback,
	}
}

// NewOracleWithProviders constructs an oracle with an explicit provider
// list, used by tests to substitute fakes.
func NewOracleWithProviders(providers []PriceProvider, fallback map[string]decimal.Decimal) *Oracle {
	return &Oracle{providers: providers, fallback: fallback}
}

// GetPrices returns USD prices for the requested coins and the name of the
// source that produced them. Only fails when even the fallback table lacks
// one of the requested coins.
func (o *Oracle) GetPrices(ctx context.Context, coins []string) (map[string]decimal.Decimal, string, error) {
	for _, provider := range o.providers {
		prices, err := provider.FetchPrices(ctx, coins)
		if err != nil {
			logger.Warn("price provider %s failed: %v", provider.Name(), err)
			continue
		}
		if complete(prices, coins) {
			return prices, provider.Name(), nil
		}
		logger.Warn("price provider %s returned incomplete data", provider.Name())
	}

	logger.Warn("all price providers failed, using fallback prices")
	prices := make(map[string]decimal.Decimal, len(coins))
	for _, coin := range coins {
		price, ok := o.fallback[coin]
		if !ok {
			return nil, "", errors.Wrap(ErrPriceUnavailable, coin)
		}
		prices[coin] = price
	}
	return prices, FallbackSource, nil
}

func complete(prices map[string]decimal.Decimal, coins []string) bool {
	for _, coin := range coins {
		price, ok := prices[coin]
		if !ok || !price.IsPositive() {
			return false
		}
	}
	return true
}
