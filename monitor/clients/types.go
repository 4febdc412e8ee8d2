package clients

import (
	"context"
	"time"

	"github.com/lilfrag140-ops/arcane-arsenal-v3/logger"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// AddressActivity is the normalized shape every provider adapter reduces
// its response to. Amount is the value crediting the monitored address in
// coin units, not the whole transaction value.
type AddressActivity struct {
	TxHash        string
	Confirmations int64
	BlockHeight   *int64
	Amount        decimal.Decimal
	Timestamp     time.Time
}

type AddressClient interface {
	Name() string
	FetchAddressActivity(ctx context.Context, address string) ([]AddressActivity, error)
}

// FailoverClient tries each provider in order and returns the first
// well-formed response.
type FailoverClient struct {
	clients []AddressClient
}

func NewFailoverClient(clients ...AddressClient) *FailoverClient {
	return &FailoverClient{clients: clients}
}

func (c *FailoverClient) Name() string {
	return "failover"
}

func (c *FailoverClient) FetchAddressActivity(ctx context.Context, address string) ([]AddressActivity, error) {
	var lastErr error
	for _, client := range c.clients {
		activity, err := client.FetchAddressActivity(ctx, address)
		if err != nil {
			logger.Warn("provider %s failed for address %s: %v", client.Name(), address, err)
			lastErr = err
			continue
		}
		return activity, nil
	}
	if lastErr == nil {
		lastErr = errors.New("no providers configured")
	}
	return nil, errors.Wrap(lastErr, "all providers failed")
}
