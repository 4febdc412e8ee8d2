package database

import (
	"time"

	"github.com/shopspring/decimal"
)

// Abstract entity, all other entities should be derived from it
type BaseEntity struct {
	ID uint64 `gorm:"primaryKey"`
}

// One shopping transaction. Denormalized crypto amounts are informational
// only; the authoritative payment status is always derived from the
// order's addresses and transactions.
type Order struct {
	BaseEntity
	Reference             string              `gorm:"type:varchar(40);uniqueIndex;not null"`
	UserID                string              `gorm:"type:varchar(40);index;not null"`
	TotalAmount           decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	Status                OrderStatus         `gorm:"type:varchar(20);index"`
	PaymentMethod         PaymentMethod       `gorm:"type:varchar(20)"`
	CryptoPaymentStatus   CryptoPaymentStatus `gorm:"type:varchar(30);index"`
	ConfirmationsRequired int64
	AmountReceived        decimal.Decimal `gorm:"type:decimal(30,18)"`
	UnderpaidAmount       decimal.Decimal `gorm:"type:decimal(30,18)"`
	OverpaidAmount        decimal.Decimal `gorm:"type:decimal(30,18)"`
	MinecraftUsername     string          `gorm:"type:varchar(40)"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type OrderItem struct {
	BaseEntity
	OrderID   uint64 `gorm:"index;not null"`
	ProductID string `gorm:"type:varchar(40)"`
	Name      string `gorm:"type:varchar(100)"`
	Quantity  int
	Price     decimal.Decimal `gorm:"type:decimal(12,2)"`
}

// One derived receive address, bound to exactly one order and coin.
// Immutable after creation.
type CryptoAddress struct {
	BaseEntity
	OrderID              uint64      `gorm:"index;not null"`
	CoinSymbol           string      `gorm:"type:varchar(10);uniqueIndex:idx_coin_type_index;not null"`
	AddressType          AddressType `gorm:"type:varchar(10);uniqueIndex:idx_coin_type_index"`
	DerivationIndex      uint32      `gorm:"uniqueIndex:idx_coin_type_index"`
	DerivationPath       string      `gorm:"type:varchar(50)"`
	Network              string      `gorm:"type:varchar(20)"`
	Address              string      `gorm:"type:varchar(100);index"`
	ExpectedAmount       decimal.Decimal `gorm:"type:decimal(30,18)"`
	EstimatedNetworkFee  decimal.Decimal `gorm:"type:decimal(30,18)"`
	RecommendedTotal     decimal.Decimal `gorm:"type:decimal(30,18)"`
	ExpiresAt            time.Time `gorm:"index"`
	TopUpWindowExpiresAt time.Time `gorm:"index"`
	CreatedAt            time.Time
}

// One detected on-chain payment event. (address, tx hash) is inserted at
// most once; confirmations only move upward.
type CryptoTransaction struct {
	BaseEntity
	CryptoAddressID uint64          `gorm:"uniqueIndex:idx_address_tx;not null"`
	TxHash          string          `gorm:"type:varchar(100);uniqueIndex:idx_address_tx;not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(30,18)"`
	Confirmations   int64
	BlockHeight     *int64
	DetectedAt      time.Time
	ConfirmedAt     *time.Time
}

// One per (coin, address type); allocated atomically.
type DerivationCounter struct {
	BaseEntity
	CoinSymbol  string      `gorm:"type:varchar(10);uniqueIndex:idx_counter_coin_type;not null"`
	AddressType AddressType `gorm:"type:varchar(10);uniqueIndex:idx_counter_coin_type;not null"`
	NextIndex   uint32
	UpdatedAt   time.Time
}

// Write-once audit record of the fiat price used for an order.
type PriceSnapshot struct {
	BaseEntity
	OrderID     uint64          `gorm:"index;not null"`
	CoinSymbol  string          `gorm:"type:varchar(10)"`
	USDPrice    decimal.Decimal `gorm:"type:decimal(18,8)"`
	PriceSource string          `gorm:"type:varchar(40)"`
	CreatedAt   time.Time
}

// Append-only event log for forensic reconstruction.
type CryptoAuditLog struct {
	BaseEntity
	EventType       AuditEventType `gorm:"type:varchar(40);index"`
	OrderID         uint64         `gorm:"index"`
	CryptoAddressID *uint64
	EventData       string `gorm:"type:json"`
	CreatedAt       time.Time
}
