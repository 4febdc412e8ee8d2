package payments

import (
	"github.com/lilfrag140-ops/arcane-arsenal-v3/wallet"

	"github.com/pkg/errors"
)

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrUnsupportedCoin   = wallet.ErrUnsupportedCoin
	ErrAddressAllocation = errors.New("address allocation failed")
	ErrCheckoutFailed    = errors.New("checkout failed")
	// One error for both missing and foreign orders, so a status probe
	// cannot reveal whether an order exists for another user.
	ErrNotFoundOrForbidden = errors.New("order not found")
)
