package clients

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/lilfrag140-ops/arcane-arsenal-v3/utils"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// BlockCypherClient reads the BlockCypher full-address endpoint, used for
// both Bitcoin and Litecoin. Amounts come back in satoshis.
type BlockCypherClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewBlockCypherClient(baseURL string, apiKey string, client *http.Client) *BlockCypherClient {
	return &BlockCypherClient{baseURL: baseURL, apiKey: apiKey, client: client}
}

func (c *BlockCypherClient) Name() string {
	return c.baseURL
}

type blockCypherOutput struct {
	Value     int64    `json:"value"`
	Addresses []string `json:"addresses"`
}

type blockCypherTx struct {
	Hash          string              `json:"hash"`
	Confirmations int64               `json:"confirmations"`
	BlockHeight   int64               `json:"block_height"`
	Received      time.Time           `json:"received"`
	Outputs       []blockCypherOutput `json:"outputs"`
}

type blockCypherAddress struct {
	Txs []blockCypherTx `json:"txs"`
}

func (c *BlockCypherClient) FetchAddressActivity(ctx context.Context, address string) ([]AddressActivity, error) {
	reqURL := utils.JoinPaths(c.baseURL, "addrs", address, "full")
	if c.apiKey != "" {
		reqURL = fmt.Sprintf("%s?token=%s", reqURL, c.apiKey)
	}
	var response blockCypherAddress
	if err := fetchJSON(ctx, c.client, reqURL, nil, &response); err != nil {
		return nil, errors.Wrap(err, "fetching address")
	}

	activity := make([]AddressActivity, 0, len(response.Txs))
	for _, tx := range response.Txs {
		credited := int64(0)
		for _, out := range tx.Outputs {
			for _, a := range out.Addresses {
				if a == address {
					credited += out.Value
					break
				}
			}
		}
		if credited == 0 {
			continue
		}

		var blockHeight *int64
		if tx.BlockHeight > 0 {
			height := tx.BlockHeight
			blockHeight = &height
		}
		activity = append(activity, AddressActivity{
			TxHash:        tx.Hash,
			Confirmations: tx.Confirmations,
			BlockHeight:   blockHeight,
			Amount:        decimal.New(credited, -8),
			Timestamp:     tx.Received,
		})
	}
	return activity, nil
}
