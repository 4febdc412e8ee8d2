package clients

import (
	"context"
	"time"

	"github.com/lilfrag140-ops/arcane-arsenal-v3/logger"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/ybbus/jsonrpc/v3"
)

const (
	// Lamport balances carry 9 decimal places.
	solDecimals = 9
	// Finalized commitment is as deep as Solana reorgs go; reported as the
	// chain's standard 32 confirmations.
	finalizedConfirmations = 32
	signatureFetchLimit    = 100
	transactionDetailLimit = 10
)

// SolanaClient reads a Solana JSON-RPC node. The credited amount is the
// monitored account's balance delta within each transaction, so transfers
// to other accounts in the same transaction are not counted.
type SolanaClient struct {
	endpoint string
	rpc      jsonrpc.RPCClient
}

func NewSolanaClient(endpoint string) *SolanaClient {
	return &SolanaClient{
		endpoint: endpoint,
		rpc:      jsonrpc.NewClient(endpoint),
	}
}

func (c *SolanaClient) Name() string {
	return c.endpoint
}

type solanaSignature struct {
	Signature          string `json:"signature"`
	Slot               int64  `json:"slot"`
	BlockTime          *int64 `json:"blockTime"`
	ConfirmationStatus string `json:"confirmationStatus"`
}

type solanaAccountKey struct {
	Pubkey string `json:"pubkey"`
}

type solanaTransaction struct {
	Meta struct {
		PreBalances  []int64 `json:"preBalances"`
		PostBalances []int64 `json:"postBalances"`
	} `json:"meta"`
	Transaction struct {
		Message struct {
			AccountKeys []solanaAccountKey `json:"accountKeys"`
		} `json:"message"`
	} `json:"transaction"`
}

func (c *SolanaClient) FetchAddressActivity(ctx context.Context, address string) ([]AddressActivity, error) {
	var signatures []solanaSignature
	response, err := c.rpc.Call(ctx, "getSignaturesForAddress", address, map[string]interface{}{
		"limit":      signatureFetchLimit,
		"commitment": "confirmed",
	})
	if err != nil {
		return nil, errors.Wrap(err, "fetching signatures")
	}
	if err := response.GetObject(&signatures); err != nil {
		return nil, errors.Wrap(err, "parsing signatures")
	}

	activity := make([]AddressActivity, 0, len(signatures))
	detailed := 0
	for _, sig := range signatures {
		if detailed >= transactionDetailLimit {
			break
		}
		detailed++

		amount, err := c.fetchCreditedAmount(ctx, sig.Signature, address)
		if err != nil {
			logger.Warn("failed to resolve solana transaction %s: %v", sig.Signature, err)
			continue
		}
		if !amount.IsPositive() {
			continue
		}

		confirmations := int64(1)
		if sig.ConfirmationStatus == "finalized" {
			confirmations = finalizedConfirmations
		}
		timestamp := time.Now()
		if sig.BlockTime != nil {
			timestamp = time.Unix(*sig.BlockTime, 0)
		}
		slot := sig.Slot

		activity = append(activity, AddressActivity{
			TxHash:        sig.Signature,
			Confirmations: confirmations,
			BlockHeight:   &slot,
			Amount:        amount,
			Timestamp:     timestamp,
		})
	}
	return activity, nil
}

func (c *SolanaClient) fetchCreditedAmount(ctx context.Context, signature string, address string) (decimal.Decimal, error) {
	var tx solanaTransaction
	response, err := c.rpc.Call(ctx, "getTransaction", signature, map[string]interface{}{
		"commitment":                     "confirmed",
		"encoding":                       "jsonParsed",
		"maxSupportedTransactionVersion": 0,
	})
	if err != nil {
		return decimal.Zero, err
	}
	if err := response.GetObject(&tx); err != nil {
		return decimal.Zero, err
	}

	accountIndex := -1
	for i, key := range tx.Transaction.Message.AccountKeys {
		if key.Pubkey == address {
			accountIndex = i
			break
		}
	}
	if accountIndex < 0 ||
		accountIndex >= len(tx.Meta.PreBalances) ||
		accountIndex >= len(tx.Meta.PostBalances) {
		return decimal.Zero, nil
	}

	delta := tx.Meta.PostBalances[accountIndex] - tx.Meta.PreBalances[accountIndex]
	if delta <= 0 {
		return decimal.Zero, nil
	}
	return decimal.New(delta, -solDecimals), nil
}
