package database

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func CreateOrder(db *gorm.DB, o *Order) error {
	return db.Create(o).Error
}

func CreateOrderItems(db *gorm.DB, items []*OrderItem) error {
	return db.Create(&items).Error
}

func FetchOrderByID(db *gorm.DB, id uint64) (Order, error) {
	var order Order
	err := db.First(&order, id).Error
	return order, err
}

func FetchOrderByReference(db *gorm.DB, reference string) (Order, error) {
	var order Order
	err := db.Where(&Order{Reference: reference}).First(&order).Error
	return order, err
}

// Fetches the order only if it belongs to the given user. Missing and
// foreign orders are indistinguishable to the caller.
func FetchOrderForUser(db *gorm.DB, reference string, userID string) (Order, error) {
	var order Order
	err := db.Where("reference = ? AND user_id = ?", reference, userID).First(&order).Error
	return order, err
}

func FetchUserOrders(db *gorm.DB, userID string, offset, limit int) ([]Order, error) {
	var orders []Order
	err := db.Where("user_id = ?", userID).
		Order("created_at desc").Offset(offset).Limit(limit).Find(&orders).Error
	return orders, err
}

func FetchOrderItems(db *gorm.DB, orderID uint64) ([]OrderItem, error) {
	var items []OrderItem
	err := db.Where("order_id = ?", orderID).Find(&items).Error
	return items, err
}

func FetchOrderItemsForOrders(db *gorm.DB, orderIDs []uint64) ([]OrderItem, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	var items []OrderItem
	err := db.Where("order_id IN ?", orderIDs).Find(&items).Error
	return items, err
}

func UpdateOrder(db *gorm.DB, o *Order) error {
	return db.Save(o).Error
}

func CreateCryptoAddress(db *gorm.DB, a *CryptoAddress) error {
	return db.Create(a).Error
}

func FetchAddressesForOrder(db *gorm.DB, orderID uint64) ([]CryptoAddress, error) {
	var addresses []CryptoAddress
	err := db.Where("order_id = ?", orderID).Find(&addresses).Error
	return addresses, err
}

// Addresses that still need monitoring: the owning order's crypto payment
// is pending or partial and at least one expiry window is still open.
func FetchMonitoredAddresses(db *gorm.DB, now time.Time) ([]CryptoAddress, error) {
	var addresses []CryptoAddress
	err := db.
		Joins("JOIN orders ON orders.id = crypto_addresses.order_id").
		Where("orders.crypto_payment_status IN ?",
			[]CryptoPaymentStatus{CryptoPaymentPending, CryptoPaymentPartial, CryptoPaymentPendingConfirmations}).
		Where("crypto_addresses.expires_at > ? OR crypto_addresses.top_up_window_expires_at > ?", now, now).
		Find(&addresses).Error
	return addresses, err
}

func FetchTransaction(db *gorm.DB, addressID uint64, txHash string) (*CryptoTransaction, error) {
	var tx CryptoTransaction
	err := db.Where("crypto_address_id = ? AND tx_hash = ?", addressID, txHash).First(&tx).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// Insert guarded by the (address, tx hash) unique key so concurrent sweeps
// cannot double-record. Returns true if the row was actually inserted.
func CreateCryptoTransaction(db *gorm.DB, tx *CryptoTransaction) (bool, error) {
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "crypto_address_id"}, {Name: "tx_hash"}},
		DoNothing: true,
	}).Create(tx)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func UpdateTransactionConfirmations(db *gorm.DB, tx *CryptoTransaction, confirmations int64, confirmedAt *time.Time) error {
	updates := map[string]interface{}{"confirmations": confirmations}
	if tx.ConfirmedAt == nil && confirmedAt != nil {
		updates["confirmed_at"] = confirmedAt
	}
	return db.Model(tx).Updates(updates).Error
}

func FetchTransactionsForAddresses(db *gorm.DB, addressIDs []uint64) ([]CryptoTransaction, error) {
	var txs []CryptoTransaction
	err := db.Where("crypto_address_id IN ?", addressIDs).
		Order("detected_at desc").Find(&txs).Error
	return txs, err
}

func CreatePriceSnapshot(db *gorm.DB, s *PriceSnapshot) error {
	return db.Create(s).Error
}

func FetchPriceSnapshotForOrder(db *gorm.DB, orderID uint64) (*PriceSnapshot, error) {
	var snapshot PriceSnapshot
	err := db.Where("order_id = ?", orderID).Order("created_at asc").First(&snapshot).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Audit failures must never fail the operation being audited; callers log
// the returned error and continue.
func CreateAuditEvent(db *gorm.DB, eventType AuditEventType, orderID uint64, addressID *uint64, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	entry := CryptoAuditLog{
		EventType:       eventType,
		OrderID:         orderID,
		CryptoAddressID: addressID,
		EventData:       string(data),
		CreatedAt:       time.Now(),
	}
	return db.Create(&entry).Error
}

func FetchAuditEvents(db *gorm.DB, orderID uint64) ([]CryptoAuditLog, error) {
	var events []CryptoAuditLog
	err := db.Where("order_id = ?", orderID).Order("created_at asc").Find(&events).Error
	return events, err
}
