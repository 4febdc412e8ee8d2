package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const nativeEthDecimals = 18

// EtherscanClient reads Etherscan-compatible account APIs. A configured
// contract address switches to token-transfer queries scoped to that
// contract; otherwise native transactions are listed.
type EtherscanClient struct {
	baseURL         string
	apiKey          string
	contractAddress string
	tokenDecimals   int32
	client          *http.Client
}

func NewEtherscanClient(baseURL, apiKey string, client *http.Client) *EtherscanClient {
	return &EtherscanClient{baseURL: baseURL, apiKey: apiKey, client: client}
}

// NewEtherscanTokenClient monitors ERC-20 transfers of one contract.
func NewEtherscanTokenClient(baseURL, apiKey, contractAddress string, tokenDecimals int32, client *http.Client) *EtherscanClient {
	return &EtherscanClient{
		baseURL:         baseURL,
		apiKey:          apiKey,
		contractAddress: contractAddress,
		tokenDecimals:   tokenDecimals,
		client:          client,
	}
}

func (c *EtherscanClient) Name() string {
	if c.contractAddress != "" {
		return fmt.Sprintf("%s (token %s)", c.baseURL, c.contractAddress)
	}
	return c.baseURL
}

type etherscanTx struct {
	Hash          string `json:"hash"`
	Value         string `json:"value"`
	Confirmations string `json:"confirmations"`
	BlockNumber   string `json:"blockNumber"`
	TimeStamp     string `json:"timeStamp"`
	To            string `json:"to"`
	IsError       string `json:"isError"`
}

type etherscanResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Result  []etherscanTx `json:"result"`
}

func (c *EtherscanClient) FetchAddressActivity(ctx context.Context, address string) ([]AddressActivity, error) {
	params := url.Values{}
	params.Set("module", "account")
	params.Set("address", address)
	params.Set("startblock", "0")
	params.Set("endblock", "99999999")
	params.Set("sort", "desc")
	params.Set("apikey", c.apiKey)
	decimals := int32(nativeEthDecimals)
	if c.contractAddress != "" {
		params.Set("action", "tokentx")
		params.Set("contractaddress", c.contractAddress)
		decimals = c.tokenDecimals
	} else {
		params.Set("action", "txlist")
	}

	var response etherscanResponse
	if err := fetchJSON(ctx, c.client, c.baseURL+"?"+params.Encode(), nil, &response); err != nil {
		return nil, errors.Wrap(err, "fetching transactions")
	}
	// Status "0" with message "No transactions found" is an empty result,
	// not a failure.
	if response.Status != "1" && !strings.Contains(response.Message, "No transactions") {
		return nil, errors.Errorf("provider error: %s", response.Message)
	}

	activity := make([]AddressActivity, 0, len(response.Result))
	for _, tx := range response.Result {
		// Only inbound, successful transfers credit the address.
		if !strings.EqualFold(tx.To, address) || tx.IsError == "1" {
			continue
		}
		amount, err := parseScaledAmount(tx.Value, decimals)
		if err != nil || !amount.IsPositive() {
			continue
		}

		confirmations, _ := strconv.ParseInt(tx.Confirmations, 10, 64)
		var blockHeight *int64
		if height, err := strconv.ParseInt(tx.BlockNumber, 10, 64); err == nil {
			blockHeight = &height
		}
		timestamp := time.Now()
		if unix, err := strconv.ParseInt(tx.TimeStamp, 10, 64); err == nil {
			timestamp = time.Unix(unix, 0)
		}

		activity = append(activity, AddressActivity{
			TxHash:        tx.Hash,
			Confirmations: confirmations,
			BlockHeight:   blockHeight,
			Amount:        amount,
			Timestamp:     timestamp,
		})
	}
	return activity, nil
}

// parseScaledAmount converts a base-unit integer string (wei, token base
// units) to coin units.
func parseScaledAmount(value string, decimals int32) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Shift(-decimals), nil
}
