package payments

import (
	"testing"
	"time"

	"github.com/lilfrag140-ops/arcane-arsenal-v3/database"

	"github.com/bradleyjkemp/cupaloy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var statusNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func statusOrder() database.Order {
	return database.Order{
		Reference:             "ord-ref-1",
		UserID:                "user-1",
		TotalAmount:           decimal.RequireFromString("50.00"),
		Status:                database.OrderPending,
		CryptoPaymentStatus:   database.CryptoPaymentPending,
		ConfirmationsRequired: 2,
		MinecraftUsername:     "Steve42",
	}
}

// Both windows still open relative to statusNow.
func openAddress() database.CryptoAddress {
	a := database.CryptoAddress{
		CoinSymbol:       "BTC",
		AddressType:      database.AddressTypeReceive,
		Address:          "bc1qstatus",
		ExpectedAmount:   decimal.RequireFromString("0.001"),
		RecommendedTotal: decimal.RequireFromString("0.0011"),
		ExpiresAt:        statusNow.Add(10 * time.Minute),
		TopUpWindowExpiresAt: statusNow.Add(40 * time.Minute),
	}
	a.ID = 1
	return a
}

func topUpAddress() database.CryptoAddress {
	a := openAddress()
	a.ExpiresAt = statusNow.Add(-5 * time.Minute)
	a.TopUpWindowExpiresAt = statusNow.Add(25 * time.Minute)
	return a
}

func closedAddress() database.CryptoAddress {
	a := openAddress()
	a.ExpiresAt = statusNow.Add(-50 * time.Minute)
	a.TopUpWindowExpiresAt = statusNow.Add(-20 * time.Minute)
	return a
}

func paymentTx(amount string, confirmations int64) database.CryptoTransaction {
	return database.CryptoTransaction{
		CryptoAddressID: 1,
		TxHash:          "aa11",
		Amount:          decimal.RequireFromString(amount),
		Confirmations:   confirmations,
		DetectedAt:      statusNow.Add(-2 * time.Minute),
	}
}

func TestComputeStatusPending(t *testing.T) {
	status := ComputeStatus(statusOrder(), []database.CryptoAddress{openAddress()}, nil, nil, statusNow)

	assert.Equal(t, database.CryptoPaymentPending, status.PaymentStatus)
	assert.Equal(t, "Awaiting payment", status.StatusMessage)
	assert.True(t, status.ExpectedAmount.Equal(decimal.RequireFromString("0.001")))
	assert.True(t, status.UnderpaidAmount.Equal(decimal.RequireFromString("0.001")))
	assert.True(t, status.TotalReceived.IsZero())
	assert.False(t, status.IsInTopUpWindow)
	assert.False(t, status.AvailableActions.CanTopUp)
	assert.False(t, status.AvailableActions.NeedsUserAction)
	assert.Equal(t, 0, status.TimeRemaining.Hours)
	assert.Equal(t, 10, status.TimeRemaining.Minutes)
	assert.False(t, status.TimeRemaining.Expired)
	assert.Nil(t, status.PriceInfo)
}

func TestComputeStatusPartial(t *testing.T) {
	txs := []database.CryptoTransaction{paymentTx("0.0004", 2)}
	status := ComputeStatus(statusOrder(), []database.CryptoAddress{openAddress()}, txs, nil, statusNow)

	assert.Equal(t, database.CryptoPaymentPartial, status.PaymentStatus)
	assert.Equal(t, "Partial payment received (0.00060000 remaining)", status.StatusMessage)
	assert.True(t, status.UnderpaidAmount.Equal(decimal.RequireFromString("0.0006")))
	assert.True(t, status.AvailableActions.NeedsUserAction)
	// Outside the top-up window no top-up can be offered.
	assert.False(t, status.AvailableActions.CanTopUp)
}

func TestComputeStatusPartialInTopUpWindow(t *testing.T) {
	txs := []database.CryptoTransaction{paymentTx("0.0004", 2)}
	status := ComputeStatus(statusOrder(), []database.CryptoAddress{topUpAddress()}, txs, nil, statusNow)

	assert.Equal(t, database.CryptoPaymentPartial, status.PaymentStatus)
	assert.Equal(t, "Partial payment received (0.00060000 remaining) - Top-up window active", status.StatusMessage)
	assert.True(t, status.IsInTopUpWindow)
	assert.True(t, status.AvailableActions.CanTopUp)
	// Remaining time counts against the top-up window now.
	assert.True(t, status.TimeRemaining.IsTopUpWindow)
	assert.Equal(t, 25, status.TimeRemaining.Minutes)
}

func TestComputeStatusPendingConfirmations(t *testing.T) {
	txs := []database.CryptoTransaction{paymentTx("0.001", 1)}
	status := ComputeStatus(statusOrder(), []database.CryptoAddress{openAddress()}, txs, nil, statusNow)

	assert.Equal(t, database.CryptoPaymentPendingConfirmations, status.PaymentStatus)
	assert.Equal(t, "Payment detected, awaiting 2 confirmations", status.StatusMessage)
	assert.True(t, status.TotalReceived.Equal(decimal.RequireFromString("0.001")))
	assert.True(t, status.TotalConfirmedReceived.IsZero())
}

func TestComputeStatusPaid(t *testing.T) {
	txs := []database.CryptoTransaction{paymentTx("0.001", 2)}
	status := ComputeStatus(statusOrder(), []database.CryptoAddress{openAddress()}, txs, nil, statusNow)

	assert.Equal(t, database.CryptoPaymentPaid, status.PaymentStatus)
	assert.Equal(t, "Payment confirmed", status.StatusMessage)
	assert.True(t, status.UnderpaidAmount.IsZero())
	assert.True(t, status.OverpaidAmount.IsZero())
	assert.False(t, status.AvailableActions.NeedsUserAction)
	assert.False(t, status.AvailableActions.CanRequestRefund)
}

func TestComputeStatusOverpaid(t *testing.T) {
	txs := []database.CryptoTransaction{paymentTx("0.0015", 3)}
	status := ComputeStatus(statusOrder(), []database.CryptoAddress{openAddress()}, txs, nil, statusNow)

	assert.Equal(t, database.CryptoPaymentOverpaid, status.PaymentStatus)
	assert.Equal(t, "Payment confirmed (overpaid by 0.00050000)", status.StatusMessage)
	assert.True(t, status.OverpaidAmount.Equal(decimal.RequireFromString("0.0005")))
	assert.True(t, status.AvailableActions.CanRequestRefund)
	assert.True(t, status.AvailableActions.NeedsUserAction)
}

func TestComputeStatusExpired(t *testing.T) {
	txs := []database.CryptoTransaction{paymentTx("0.0004", 2)}
	status := ComputeStatus(statusOrder(), []database.CryptoAddress{closedAddress()}, txs, nil, statusNow)

	assert.Equal(t, database.CryptoPaymentExpired, status.PaymentStatus)
	assert.Equal(t, "Payment window expired", status.StatusMessage)
	assert.True(t, status.TimeRemaining.Expired)
	assert.False(t, status.AvailableActions.CanTopUp)
}

func TestComputeStatusPaidSurvivesExpiry(t *testing.T) {
	txs := []database.CryptoTransaction{paymentTx("0.001", 2)}
	status := ComputeStatus(statusOrder(), []database.CryptoAddress{closedAddress()}, txs, nil, statusNow)

	// A fully confirmed payment never flips to expired.
	assert.Equal(t, database.CryptoPaymentPaid, status.PaymentStatus)
}

func TestComputeStatusTransactionDetails(t *testing.T) {
	older := paymentTx("0.0004", 2)
	older.TxHash = "aa11"
	older.DetectedAt = statusNow.Add(-10 * time.Minute)
	newer := paymentTx("0.0006", 1)
	newer.TxHash = "bb22"
	txs := []database.CryptoTransaction{older, newer}

	status := ComputeStatus(statusOrder(), []database.CryptoAddress{openAddress()}, txs, nil, statusNow)

	// Newest first.
	assert.Equal(t, "bb22", status.Transactions[0].TxHash)
	assert.Equal(t, "pending", status.Transactions[0].Status)
	assert.Equal(t, "1/2", status.Transactions[0].ConfirmationProgress)
	assert.Equal(t, "aa11", status.Transactions[1].TxHash)
	assert.Equal(t, "confirmed", status.Transactions[1].Status)
	assert.Equal(t, "BTC", status.Transactions[1].Coin)
	assert.Equal(t, "https://blockstream.info/tx/aa11", status.Transactions[1].ExplorerURL)
}

func TestComputeStatusWithoutAddresses(t *testing.T) {
	status := ComputeStatus(statusOrder(), nil, nil, nil, statusNow)

	assert.Equal(t, database.CryptoPaymentPending, status.PaymentStatus)
	assert.True(t, status.ExpectedAmount.Equal(decimal.RequireFromString("50.00")))
	assert.True(t, status.TimeRemaining.Expired)
}

func TestComputeStatusPriceInfo(t *testing.T) {
	snapshot := &database.PriceSnapshot{
		CoinSymbol:  "BTC",
		USDPrice:    decimal.RequireFromString("50000"),
		PriceSource: "coingecko",
		CreatedAt:   statusNow.Add(-time.Minute),
	}
	status := ComputeStatus(statusOrder(), []database.CryptoAddress{openAddress()}, nil, snapshot, statusNow)

	assert.NotNil(t, status.PriceInfo)
	assert.Equal(t, "coingecko", status.PriceInfo.PriceSource)
	assert.True(t, status.PriceInfo.USDPrice.Equal(decimal.RequireFromString("50000")))
}

// Status messages are user-facing copy; any change should be deliberate.
func TestStatusMessages(t *testing.T) {
	order := statusOrder()
	open := []database.CryptoAddress{openAddress()}

	cupaloy.SnapshotT(t,
		ComputeStatus(order, open, nil, nil, statusNow).StatusMessage,
		ComputeStatus(order, open, []database.CryptoTransaction{paymentTx("0.0004", 2)}, nil, statusNow).StatusMessage,
		ComputeStatus(order, []database.CryptoAddress{topUpAddress()}, []database.CryptoTransaction{paymentTx("0.0004", 2)}, nil, statusNow).StatusMessage,
		ComputeStatus(order, open, []database.CryptoTransaction{paymentTx("0.001", 1)}, nil, statusNow).StatusMessage,
		ComputeStatus(order, open, []database.CryptoTransaction{paymentTx("0.001", 2)}, nil, statusNow).StatusMessage,
		ComputeStatus(order, open, []database.CryptoTransaction{paymentTx("0.0015", 3)}, nil, statusNow).StatusMessage,
		ComputeStatus(order, []database.CryptoAddress{closedAddress()}, []database.CryptoTransaction{paymentTx("0.0004", 2)}, nil, statusNow).StatusMessage)
}
