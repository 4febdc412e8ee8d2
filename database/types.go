package database

// Order lifecycle

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodCrypto PaymentMethod = "crypto"
)

// Crypto payment state, derived from transactions and expiry windows

type CryptoPaymentStatus string

const (
	CryptoPaymentPending              CryptoPaymentStatus = "pending"
	CryptoPaymentPartial              CryptoPaymentStatus = "partial"
	CryptoPaymentPendingConfirmations CryptoPaymentStatus = "pending_confirmations"
	CryptoPaymentPaid                 CryptoPaymentStatus = "paid"
	CryptoPaymentOverpaid             CryptoPaymentStatus = "overpaid"
	CryptoPaymentExpired              CryptoPaymentStatus = "expired"
)

type AddressType string

const (
	AddressTypeReceive AddressType = "receive"
	AddressTypeChange  AddressType = "change"
)

// Audit events

type AuditEventType string

const (
	AuditAddressGenerated AuditEventType = "address_generated"
	AuditPaymentDetected  AuditEventType = "payment_detected"
	AuditPaymentExpired   AuditEventType = "payment_expired"
	AuditNeedsUserAction  AuditEventType = "needs_user_action"
)
