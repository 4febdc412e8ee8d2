package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lilfrag140-ops/arcane-arsenal-v3/utils"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// EsploraClient reads Blockstream/mempool.space style block explorer REST
// APIs for Bitcoin-family coins. Amounts come back in satoshis.
type EsploraClient struct {
	baseURL string
	client  *http.Client
}

func NewEsploraClient(baseURL string, client *http.Client) *EsploraClient {
	return &EsploraClient{baseURL: baseURL, client: client}
}

func (c *EsploraClient) Name() string {
	return c.baseURL
}

type esploraTxStatus struct {
	Confirmed   bool   `json:"confirmed"`
	BlockHeight *int64 `json:"block_height"`
	BlockTime   *int64 `json:"block_time"`
}

type esploraVout struct {
	ScriptPubKeyAddress string `json:"scriptpubkey_address"`
	Value               int64  `json:"value"`
}

type esploraTx struct {
	TxID   string          `json:"txid"`
	Status esploraTxStatus `json:"status"`
	Vout   []esploraVout   `json:"vout"`
}

func (c *EsploraClient) FetchAddressActivity(ctx context.Context, address string) ([]AddressActivity, error) {
	tipHeight, err := c.fetchTipHeight(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetching tip height")
	}

	var txs []esploraTx
	txURL := utils.JoinPaths(c.baseURL, "address", address, "txs")
	if err := fetchJSON(ctx, c.client, txURL, nil, &txs); err != nil {
		return nil, errors.Wrap(err, "fetching address transactions")
	}

	activity := make([]AddressActivity, 0, len(txs))
	for _, tx := range txs {
		credited := int64(0)
		for _, out := range tx.Vout {
			if out.ScriptPubKeyAddress == address {
				credited += out.Value
			}
		}
		if credited == 0 {
			continue
		}

		var confirmations int64
		var timestamp time.Time
		if tx.Status.Confirmed && tx.Status.BlockHeight != nil {
			confirmations = tipHeight - *tx.Status.BlockHeight + 1
			if confirmations < 0 {
				confirmations = 0
			}
		}
		if tx.Status.BlockTime != nil {
			timestamp = time.Unix(*tx.Status.BlockTime, 0)
		} else {
			timestamp = time.Now()
		}

		activity = append(activity, AddressActivity{
			TxHash:        tx.TxID,
			Confirmations: confirmations,
			BlockHeight:   tx.Status.BlockHeight,
			Amount:        decimal.New(credited, -8),
			Timestamp:     timestamp,
		})
	}
	return activity, nil
}

func (c *EsploraClient) fetchTipHeight(ctx context.Context) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, utils.JoinPaths(c.baseURL, "blocks/tip/height"), nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, errors.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(strings.TrimSpace(string(body)), 10, 64)
}

func fetchJSON(ctx context.Context, client *http.Client, reqURL string, headers map[string]string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
