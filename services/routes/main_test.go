package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	globalConfig "github.com/lilfrag140-ops/arcane-arsenal-v3/config"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/monitor/clients"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/pricing"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/services/api"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/services/config"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/services/context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// BIP84 test vector account key, watch-only.
const testBitcoinZpub = "zpub6rFR7y4Q2AijBEqTUquhVz398htDFrtymD9xYYfG1m4wAcvPhXNfE3EfH1r1ADqtfSdVCToUG868RvUUkgDKf31mGDtKsAYz2oz2AGutZYs"

func testConfig() *config.Config {
	return &config.Config{
		Services: config.ServicesConfig{
			Address:     "localhost:0",
			AdminAPIKey: "test-admin-key",
		},
		Coins: globalConfig.CoinsConfig{
			"BTC": {
				ExtendedPublicKey: testBitcoinZpub,
				Network:           "mainnet",
				Confirmations:     2,
				EstimatedFee:      decimal.RequireFromString("0.0001"),
			},
		},
		Pricing: globalConfig.PricingConfig{
			Fallback: map[string]decimal.Decimal{
				"BTC": decimal.RequireFromString("50000"),
			},
		},
		Checkout: globalConfig.CheckoutConfig{
			ExpiryMinutes:      15,
			TopUpWindowMinutes: 45,
		},
	}
}

// Each test gets its own in-memory database and a recorded chain client so
// route behavior never depends on test ordering.
func newTestServices(t *testing.T) (context.ServicesContext, *clients.RecordedAddressClient) {
	t.Helper()

	cfg := testConfig()
	oracle := pricing.NewOracleWithProviders(nil, cfg.Pricing.Fallback)
	chainFake := clients.NewRecordedAddressClient("test")
	ctx, err := context.BuildTestContext(cfg, oracle, map[string]clients.AddressClient{"BTC": chainFake})
	require.NoError(t, err)
	return ctx, chainFake
}

func jsonToReader(t *testing.T, value any) io.Reader {
	t.Helper()
	body, err := json.Marshal(value)
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func decodeWrapper[T any](t *testing.T, body io.Reader) api.ApiResponseWrapper[T] {
	t.Helper()
	var response api.ApiResponseWrapper[T]
	require.NoError(t, json.NewDecoder(body).Decode(&response))
	return response
}
