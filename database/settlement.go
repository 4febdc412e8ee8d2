package database

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SettlementResult struct {
	Expired int
	Flagged int
}

// SettleExpiredOrders finalizes crypto orders whose payment windows have
// fully elapsed while still short of the expected amount, and flags over-
// and underpayments that need a human decision. Expiry is terminal for the
// address; a new order must be created to pay again. The order's own
// lifecycle status is never moved to cancelled here.
func SettleExpiredOrders(db *gorm.DB, now time.Time) (SettlementResult, error) {
	var result SettlementResult

	var orders []Order
	err := db.Where("payment_method = ?", PaymentMethodCrypto).
		Where("crypto_payment_status IN ?", []CryptoPaymentStatus{
			CryptoPaymentPending, CryptoPaymentPartial, CryptoPaymentPendingConfirmations,
		}).Find(&orders).Error
	if err != nil {
		return result, err
	}

	for i := range orders {
		order := &orders[i]
		addresses, err := FetchAddressesForOrder(db, order.ID)
		if err != nil {
			return result, err
		}
		if len(addresses) == 0 {
			continue
		}

		allExpired := true
		expected := decimal.Zero
		addressIDs := make([]uint64, len(addresses))
		for j, a := range addresses {
			if !a.FullyExpired(now) {
				allExpired = false
			}
			expected = expected.Add(a.ExpectedAmount)
			addressIDs[j] = a.ID
		}

		txs, err := FetchTransactionsForAddresses(db, addressIDs)
		if err != nil {
			return result, err
		}
		received := decimal.Zero
		confirmed := decimal.Zero
		for _, tx := range txs {
			received = received.Add(tx.Amount)
			if tx.IsConfirmed(order.ConfirmationsRequired) {
				confirmed = confirmed.Add(tx.Amount)
			}
		}

		underpaid := decimal.Max(decimal.Zero, expected.Sub(confirmed))
		overpaid := decimal.Max(decimal.Zero, confirmed.Sub(expected))

		if allExpired && confirmed.LessThan(expected) {
			order.CryptoPaymentStatus = CryptoPaymentExpired
			order.AmountReceived = received
			order.UnderpaidAmount = underpaid
			order.OverpaidAmount = decimal.Zero
			err := DoInTransaction(db, func(tx *gorm.DB) error {
				return UpdateOrder(tx, order)
			}, func(tx *gorm.DB) error {
				return CreateAuditEvent(tx, AuditPaymentExpired, order.ID, nil, map[string]interface{}{
					"expected":  expected.String(),
					"received":  received.String(),
					"confirmed": confirmed.String(),
				})
			})
			if err != nil {
				return result, err
			}
			result.Expired++
			continue
		}

		// Overpayment needs a refund/credit decision; flag it once.
		if overpaid.IsPositive() && !order.OverpaidAmount.Equal(overpaid) {
			order.OverpaidAmount = overpaid
			order.AmountReceived = received
			order.UnderpaidAmount = decimal.Zero
			err := DoInTransaction(db, func(tx *gorm.DB) error {
				return UpdateOrder(tx, order)
			}, func(tx *gorm.DB) error {
				return CreateAuditEvent(tx, AuditNeedsUserAction, order.ID, nil, map[string]interface{}{
					"reason":   "overpaid",
					"expected": expected.String(),
					"overpaid": overpaid.String(),
				})
			})
			if err != nil {
				return result, err
			}
			result.Flagged++
		}
	}

	return result, nil
}
