package database

import (
	"fmt"
	"strings"
	"time"
)

func (a *CryptoAddress) IsExpired(now time.Time) bool {
	return a.ExpiresAt.Before(now)
}

// True while past the hard expiry but still inside the top-up window.
func (a *CryptoAddress) InTopUpWindow(now time.Time) bool {
	return a.ExpiresAt.Before(now) && a.TopUpWindowExpiresAt.After(now)
}

func (a *CryptoAddress) FullyExpired(now time.Time) bool {
	return a.ExpiresAt.Before(now) && !a.TopUpWindowExpiresAt.After(now)
}

// Wallet deep-link URI for QR rendering.
func (a *CryptoAddress) QRData() string {
	return fmt.Sprintf("%s:%s?amount=%s", strings.ToLower(a.CoinSymbol), a.Address, a.RecommendedTotal.String())
}

func (o *Order) IsTerminal() bool {
	return o.Status == OrderCompleted || o.Status == OrderCancelled
}

func (tx *CryptoTransaction) IsConfirmed(required int64) bool {
	return tx.Confirmations >= required
}
