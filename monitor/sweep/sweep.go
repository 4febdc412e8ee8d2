package sweep

import (
	"context"
	"time"

	"github.com/lilfrag140-ops/arcane-arsenal-v3/database"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/logger"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/monitor/clients"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/ratelimit"
	"gorm.io/gorm"
)

type AddressResult struct {
	Address              string `json:"address"`
	CoinSymbol           string `json:"coinSymbol"`
	NewlyDetected        int    `json:"newlyDetected"`
	ConfirmationsUpdated int    `json:"confirmationsUpdated"`
}

type DetectionSummary struct {
	TotalAddressesMonitored int             `json:"totalAddressesMonitored"`
	AddressesProcessed      int             `json:"addressesProcessed"`
	NewTransactions         int             `json:"newTransactionsDetected"`
	ConfirmationsUpdated    int             `json:"confirmationsUpdated"`
	OrdersExpired           int             `json:"ordersExpired"`
	OrdersFlagged           int             `json:"ordersFlagged"`
	Results                 []AddressResult `json:"results"`
}

// Engine polls providers for every monitored address, records detected
// transactions and rolls the results up into the owning orders. Sweeps are
// idempotent; running twice over the same chain state changes nothing.
type Engine struct {
	db      *gorm.DB
	clients map[string]clients.AddressClient
	limiter ratelimit.Limiter
	metrics *metrics
	now     func() time.Time
}

func NewEngine(db *gorm.DB, addressClients map[string]clients.AddressClient, requestsPerSecond int) *Engine {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 4
	}
	return &Engine{
		db:      db,
		clients: addressClients,
		limiter: ratelimit.New(requestsPerSecond),
		metrics: newMetrics("crypto_monitor"),
		now:     time.Now,
	}
}

// NewTestEngine skips metrics registration and rate limiting.
func NewTestEngine(db *gorm.DB, addressClients map[string]clients.AddressClient, now func() time.Time) *Engine {
	return &Engine{
		db:      db,
		clients: addressClients,
		limiter: ratelimit.NewUnlimited(),
		now:     now,
	}
}

func (e *Engine) RunSweep(ctx context.Context) (*DetectionSummary, error) {
	start := e.now()
	summary := &DetectionSummary{Results: []AddressResult{}}

	addresses, err := database.FetchMonitoredAddresses(e.db, start)
	if err != nil {
		return nil, errors.Wrap(err, "fetching monitored addresses")
	}
	summary.TotalAddressesMonitored = len(addresses)

	orders := make(map[uint64]*database.Order)
	touched := mapset.NewThreadUnsafeSet[uint64]()
	for i := range addresses {
		address := &addresses[i]
		client, ok := e.clients[address.CoinSymbol]
		if !ok {
			logger.Debug("no provider configured for %s, skipping %s", address.CoinSymbol, address.Address)
			continue
		}

		order, err := e.orderFor(orders, address.OrderID)
		if err != nil {
			return nil, err
		}

		e.limiter.Take()
		activity, err := client.FetchAddressActivity(ctx, address.Address)
		if err != nil {
			logger.Error("sweep of %s address %s failed: %v", address.CoinSymbol, address.Address, err)
			if e.metrics != nil {
				e.metrics.providerFailures.Inc()
			}
			continue
		}

		result := AddressResult{Address: address.Address, CoinSymbol: address.CoinSymbol}
		for _, act := range activity {
			detected, updated, err := e.ingest(address, order, act)
			if err != nil {
				return nil, err
			}
			if detected {
				result.NewlyDetected++
			}
			if updated {
				result.ConfirmationsUpdated++
			}
		}

		summary.AddressesProcessed++
		summary.NewTransactions += result.NewlyDetected
		summary.ConfirmationsUpdated += result.ConfirmationsUpdated
		if result.NewlyDetected > 0 || result.ConfirmationsUpdated > 0 {
			summary.Results = append(summary.Results, result)
			touched.Add(address.OrderID)
		}
	}

	for orderID := range touched.Iter() {
		if err := e.refreshOrderPayment(orders[orderID]); err != nil {
			return nil, err
		}
	}

	settlement, err := database.SettleExpiredOrders(e.db, e.now())
	if err != nil {
		return nil, errors.Wrap(err, "settling expired orders")
	}
	summary.OrdersExpired = settlement.Expired
	summary.OrdersFlagged = settlement.Flagged

	if e.metrics != nil {
		e.metrics.addressesSwept.Add(float64(summary.AddressesProcessed))
		e.metrics.transactionsDetected.Add(float64(summary.NewTransactions))
		e.metrics.confirmationsUpdated.Add(float64(summary.ConfirmationsUpdated))
		e.metrics.sweepDuration.Set(float64(time.Since(start).Milliseconds()))
	}
	return summary, nil
}

func (e *Engine) orderFor(cache map[uint64]*database.Order, orderID uint64) (*database.Order, error) {
	if order, ok := cache[orderID]; ok {
		return order, nil
	}
	order, err := database.FetchOrderByID(e.db, orderID)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching order %d", orderID)
	}
	cache[orderID] = &order
	return &order, nil
}

// ingest records one provider-reported transaction. Inserts are guarded by
// the (address, tx hash) unique key; confirmations only move upward and
// confirmedAt is set exactly once, when the required depth is first seen.
func (e *Engine) ingest(
	address *database.CryptoAddress, order *database.Order, act clients.AddressActivity,
) (detected bool, updated bool, err error) {
	if !act.Amount.IsPositive() {
		return false, false, nil
	}

	now := e.now()
	tx := &database.CryptoTransaction{
		CryptoAddressID: address.ID,
		TxHash:          act.TxHash,
		Amount:          act.Amount,
		Confirmations:   act.Confirmations,
		BlockHeight:     act.BlockHeight,
		DetectedAt:      now,
	}
	if act.Confirmations >= order.ConfirmationsRequired {
		tx.ConfirmedAt = &now
	}

	inserted, err := database.CreateCryptoTransaction(e.db, tx)
	if err != nil {
		return false, false, errors.Wrap(err, "recording transaction")
	}
	if inserted {
		logger.Info("detected %s payment of %s to %s (tx %s, %d confirmations)",
			address.CoinSymbol, act.Amount, address.Address, act.TxHash, act.Confirmations)
		auditErr := database.CreateAuditEvent(e.db, database.AuditPaymentDetected, order.ID, &address.ID, map[string]interface{}{
			"txHash":        act.TxHash,
			"coin":          address.CoinSymbol,
			"amount":        act.Amount.String(),
			"confirmations": act.Confirmations,
		})
		if auditErr != nil {
			logger.Error("failed to audit payment detection for order %d: %v", order.ID, auditErr)
		}
		return true, false, nil
	}

	existing, err := database.FetchTransaction(e.db, address.ID, act.TxHash)
	if err != nil || existing == nil {
		return false, false, err
	}
	if act.Confirmations <= existing.Confirmations {
		return false, false, nil
	}
	var confirmedAt *time.Time
	if existing.ConfirmedAt == nil && act.Confirmations >= order.ConfirmationsRequired {
		confirmedAt = &now
	}
	if err := database.UpdateTransactionConfirmations(e.db, existing, act.Confirmations, confirmedAt); err != nil {
		return false, false, errors.Wrap(err, "updating confirmations")
	}
	return false, true, nil
}

// refreshOrderPayment re-derives the order's payment state from all of its
// addresses and transactions. A fully confirmed payment also advances the
// order itself from pending to processing so fulfillment can pick it up.
func (e *Engine) refreshOrderPayment(order *database.Order) error {
	addresses, err := database.FetchAddressesForOrder(e.db, order.ID)
	if err != nil {
		return err
	}
	expected := decimal.Zero
	addressIDs := make([]uint64, len(addresses))
	for i, a := range addresses {
		expected = expected.Add(a.ExpectedAmount)
		addressIDs[i] = a.ID
	}

	txs, err := database.FetchTransactionsForAddresses(e.db, addressIDs)
	if err != nil {
		return err
	}
	received := decimal.Zero
	confirmed := decimal.Zero
	for _, tx := range txs {
		received = received.Add(tx.Amount)
		if tx.IsConfirmed(order.ConfirmationsRequired) {
			confirmed = confirmed.Add(tx.Amount)
		}
	}

	status := database.CryptoPaymentPending
	switch {
	case confirmed.GreaterThan(expected):
		status = database.CryptoPaymentOverpaid
	case confirmed.GreaterThanOrEqual(expected) && expected.IsPositive():
		status = database.CryptoPaymentPaid
	case received.GreaterThanOrEqual(expected) && expected.IsPositive():
		status = database.CryptoPaymentPendingConfirmations
	case received.IsPositive():
		status = database.CryptoPaymentPartial
	}

	overpaid := decimal.Max(decimal.Zero, confirmed.Sub(expected))
	previousOverpaid := order.OverpaidAmount

	order.CryptoPaymentStatus = status
	order.AmountReceived = received
	order.UnderpaidAmount = decimal.Max(decimal.Zero, expected.Sub(confirmed))
	order.OverpaidAmount = overpaid
	if (status == database.CryptoPaymentPaid || status == database.CryptoPaymentOverpaid) &&
		order.Status == database.OrderPending {
		order.Status = database.OrderProcessing
	}
	if err := database.UpdateOrder(e.db, order); err != nil {
		return err
	}

	// Overpayment needs a refund/credit decision; flag it once.
	if status == database.CryptoPaymentOverpaid && !previousOverpaid.Equal(overpaid) {
		err := database.CreateAuditEvent(e.db, database.AuditNeedsUserAction, order.ID, nil, map[string]interface{}{
			"reason":   "overpaid",
			"expected": expected.String(),
			"overpaid": overpaid.String(),
		})
		if err != nil {
			logger.Error("failed to flag overpayment on order %d: %v", order.ID, err)
		}
	}
	return nil
}
