package pricing

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name   string
	prices map[string]decimal.Decimal
	err    error
	calls  int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) FetchPrices(_ context.Context, _ []string) (map[string]decimal.Decimal, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.prices, nil
}

func prices(pairs map[string]string) map[string]decimal.Decimal {
	result := make(map[string]decimal.Decimal, len(pairs))
	for coin, price := range pairs {
		result[coin] = decimal.RequireFromString(price)
	}
	return result
}

func TestOracleFirstCompleteTableWins(t *testing.T) {
	first := &fakeProvider{name: "first", prices: prices(map[string]string{"BTC": "43000", "ETH": "2500"})}
	second := &fakeProvider{name: "second", prices: prices(map[string]string{"BTC": "44000", "ETH": "2600"})}
	oracle := NewOracleWithProviders([]PriceProvider{first, second}, nil)

	got, source, err := oracle.GetPrices(context.Background(), []string{"BTC", "ETH"})
	require.NoError(t, err)
	assert.Equal(t, "first", source)
	assert.True(t, got["BTC"].Equal(decimal.RequireFromString("43000")))
	assert.Equal(t, 0, second.calls)
}

func TestOracleSkipsFailingAndIncompleteProviders(t *testing.T) {
	failing := &fakeProvider{name: "failing", err: errors.New("rate limited")}
	// Partial tables and non-positive prices are both rejected.
	partial := &fakeProvider{name: "partial", prices: prices(map[string]string{"BTC": "43000"})}
	zero := &fakeProvider{name: "zero", prices: prices(map[string]string{"BTC": "43000", "ETH": "0"})}
	good := &fakeProvider{name: "good", prices: prices(map[string]string{"BTC": "43000", "ETH": "2500"})}
	oracle := NewOracleWithProviders([]PriceProvider{failing, partial, zero, good}, nil)

	_, source, err := oracle.GetPrices(context.Background(), []string{"BTC", "ETH"})
	require.NoError(t, err)
	assert.Equal(t, "good", source)
}

func TestOracleFallback(t *testing.T) {
	failing := &fakeProvider{name: "failing", err: errors.New("down")}
	fallback := prices(map[string]string{"BTC": "43000"})
	oracle := NewOracleWithProviders([]PriceProvider{failing}, fallback)

	got, source, err := oracle.GetPrices(context.Background(), []string{"BTC"})
	require.NoError(t, err)
	assert.Equal(t, FallbackSource, source)
	assert.True(t, got["BTC"].Equal(decimal.RequireFromString("43000")))

	// A coin missing from the fallback is a hard failure.
	_, _, err = oracle.GetPrices(context.Background(), []string{"BTC", "SOL"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPriceUnavailable))
}

func TestCoinGeckoProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("ids"), "bitcoin")
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		fmt.Fprint(w, `{"bitcoin": {"usd": 43250.12}, "solana": {"usd": 95.5}}`)
	}))
	defer server.Close()

	provider := NewCoinGeckoProvider(server.URL, server.Client())
	got, err := provider.FetchPrices(context.Background(), []string{"BTC", "SOL"})
	require.NoError(t, err)
	assert.True(t, got["BTC"].Equal(decimal.RequireFromString("43250.12")))
	assert.True(t, got["SOL"].Equal(decimal.RequireFromString("95.5")))

	_, err = provider.FetchPrices(context.Background(), []string{"XMR"})
	require.Error(t, err)
}

func TestCoinbaseProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "USD", r.URL.Query().Get("currency"))
		fmt.Fprint(w, `{"data": {"currency": "USD", "rates": {"BTC": "0.000025", "ETH": "0.0004"}}}`)
	}))
	defer server.Close()

	provider := NewCoinbaseProvider(server.URL, server.Client())
	got, err := provider.FetchPrices(context.Background(), []string{"BTC", "ETH", "USDT"})
	require.NoError(t, err)
	// Rates are units per dollar, so the price is the inverse.
	assert.True(t, got["BTC"].Equal(decimal.RequireFromString("40000")), got["BTC"].String())
	assert.True(t, got["ETH"].Equal(decimal.RequireFromString("2500")))
	assert.True(t, got["USDT"].Equal(decimal.NewFromInt(1)))
}
