package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Coin symbol to CoinGecko asset id.
var coinGeckoIDs = map[string]string{
	"BTC":  "bitcoin",
	"LTC":  "litecoin",
	"ETH":  "ethereum",
	"USDT": "tether",
	"USDC": "usd-coin",
	"SOL":  "solana",
}

type CoinGeckoProvider struct {
	baseURL string
	client  *http.Client
}

func NewCoinGeckoProvider(baseURL string, client *http.Client) *CoinGeckoProvider {
	return &CoinGeckoProvider{baseURL: baseURL, client: client}
}

func (p *CoinGeckoProvider) Name() string {
	return "coingecko"
}

func (p *CoinGeckoProvider) FetchPrices(ctx context.Context, coins []string) (map[string]decimal.Decimal, error) {
	ids := make([]string, 0, len(coins))
	for _, coin := range coins {
		id, ok := coinGeckoIDs[coin]
		if !ok {
			return nil, errors.Errorf("no coingecko id for %s", coin)
		}
		ids = append(ids, id)
	}

	reqURL := fmt.Sprintf("%s?ids=%s&vs_currencies=usd", p.baseURL, url.QueryEscape(strings.Join(ids, ",")))
	var response map[string]map[string]decimal.Decimal
	if err := getJSON(ctx, p.client, reqURL, &response); err != nil {
		return nil, err
	}

	prices := make(map[string]decimal.Decimal, len(coins))
	for _, coin := range coins {
		if usd, ok := response[coinGeckoIDs[coin]]["usd"]; ok {
			prices[coin] = usd
		}
	}
	return prices, nil
}

type CoinbaseProvider struct {
	baseURL string
	client  *http.Client
}

func NewCoinbaseProvider(baseURL string, client *http.Client) *CoinbaseProvider {
	return &CoinbaseProvider{baseURL: baseURL, client: client}
}

func (p *CoinbaseProvider) Name() string {
	return "coinbase"
}

// Coinbase publishes USD exchange rates as units-per-dollar; the USD price
// is the inverse. Dollar-pegged stablecoins are fixed at 1.
func (p *CoinbaseProvider) FetchPrices(ctx context.Context, coins []string) (map[string]decimal.Decimal, error) {
	var response struct {
		Data struct {
			Rates map[string]decimal.Decimal `json:"rates"`
		} `json:"data"`
	}
	if err := getJSON(ctx, p.client, p.baseURL+"?currency=USD", &response); err != nil {
		return nil, err
	}

	prices := make(map[string]decimal.Decimal, len(coins))
	for _, coin := range coins {
		if coin == "USDT" || coin == "USDC" {
			prices[coin] = decimal.NewFromInt(1)
			continue
		}
		rate, ok := response.Data.Rates[coin]
		if !ok || !rate.IsPositive() {
			continue
		}
		prices[coin] = decimal.NewFromInt(1).DivRound(rate, 8)
	}
	return prices, nil
}

func getJSON(ctx context.Context, client *http.Client, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "ArcaneArsenal-CryptoPayments/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
