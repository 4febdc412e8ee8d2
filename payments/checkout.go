package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lilfrag140-ops/arcane-arsenal-v3/config"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/database"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/logger"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/pricing"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/utils"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/wallet"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const cryptoAmountPrecision = 18

type CartItem struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type PaymentInstructions struct {
	OrderID                   string          `json:"orderId"`
	Coin                      string          `json:"coin"`
	Network                   string          `json:"network"`
	Address                   string          `json:"address"`
	DerivationPath            string          `json:"derivationPath"`
	DerivationIndex           uint32          `json:"derivationIndex"`
	Amount                    decimal.Decimal `json:"amount"`
	AmountFormatted           string          `json:"amountFormatted"`
	EstimatedNetworkFee       decimal.Decimal `json:"estimatedNetworkFee"`
	RecommendedTotal          decimal.Decimal `json:"recommendedTotal"`
	RecommendedTotalFormatted string          `json:"recommendedTotalFormatted"`
	USDAmount                 decimal.Decimal `json:"usdAmount"`
	CoinPriceUSD              decimal.Decimal `json:"coinPriceUSD"`
	ExpiresAt                 time.Time       `json:"expiresAt"`
	TopUpWindowExpiresAt      time.Time       `json:"topUpWindowExpiresAt"`
	ConfirmationsRequired     int64           `json:"confirmationsRequired"`
	QRData                    string          `json:"qrData"`
	WarningMessage            string          `json:"warningMessage"`
	SupportedCoins            []string        `json:"supportedCoins"`
}

// Checkout orchestrates crypto order creation: validation, fiat totals,
// price lookup, derivation index allocation, address derivation and
// persistence of the order, address, snapshot and audit trail.
type Checkout struct {
	db     *gorm.DB
	oracle *pricing.Oracle
	coins  config.CoinsConfig
	cfg    config.CheckoutConfig
	now    func() time.Time
}

func NewCheckout(db *gorm.DB, oracle *pricing.Oracle, coins config.CoinsConfig, cfg config.CheckoutConfig) *Checkout {
	return &Checkout{
		db:     db,
		oracle: oracle,
		coins:  coins,
		cfg:    cfg,
		now:    time.Now,
	}
}

func (c *Checkout) CreateCryptoOrder(
	ctx context.Context,
	userID string,
	items []CartItem,
	minecraftUsername string,
	coin string,
) (*PaymentInstructions, error) {
	coinCfg, err := c.validate(userID, items, minecraftUsername, coin)
	if err != nil {
		return nil, err
	}

	totalUSD := decimal.Zero
	for _, item := range items {
		totalUSD = totalUSD.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if !totalUSD.IsPositive() {
		return nil, errors.Wrap(ErrInvalidRequest, "order total must be positive")
	}

	order := database.Order{
		Reference:             uuid.NewString(),
		UserID:                userID,
		TotalAmount:           totalUSD,
		Status:                database.OrderPending,
		PaymentMethod:         database.PaymentMethodCrypto,
		CryptoPaymentStatus:   database.CryptoPaymentPending,
		ConfirmationsRequired: coinCfg.Confirmations,
		MinecraftUsername:     strings.TrimSpace(minecraftUsername),
	}
	if err := database.CreateOrder(c.db, &order); err != nil {
		return nil, errors.Wrap(ErrCheckoutFailed, err.Error())
	}

	orderItems := make([]*database.OrderItem, len(items))
	for i, item := range items {
		orderItems[i] = &database.OrderItem{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}
	// The order survives an item-row failure; support tooling can still
	// inspect it by id while the sweeper eventually expires it.
	if err := database.CreateOrderItems(c.db, orderItems); err != nil {
		logger.Error("failed to create items for order %s: %v", order.Reference, err)
	}

	prices, source, err := c.oracle.GetPrices(ctx, []string{coin})
	if err != nil {
		return nil, err
	}
	price := prices[coin]

	cryptoAmount := totalUSD.DivRound(price, cryptoAmountPrecision)
	recommendedTotal := cryptoAmount.Add(coinCfg.EstimatedFee)

	index, err := database.NextDerivationIndex(c.db, coin, database.AddressTypeReceive)
	if err != nil {
		return nil, errors.Wrap(ErrAddressAllocation, err.Error())
	}

	derived, err := wallet.Derive(coin, coinCfg.SigningKey(), index, false)
	if err != nil {
		return nil, errors.Wrap(ErrCheckoutFailed, err.Error())
	}

	now := c.now()
	address := database.CryptoAddress{
		OrderID:              order.ID,
		CoinSymbol:           coin,
		AddressType:          database.AddressTypeReceive,
		DerivationIndex:      index,
		DerivationPath:       derived.DerivationPath,
		Network:              coinCfg.Network,
		Address:              derived.Address,
		ExpectedAmount:       cryptoAmount,
		EstimatedNetworkFee:  coinCfg.EstimatedFee,
		RecommendedTotal:     recommendedTotal,
		ExpiresAt:            now.Add(time.Duration(c.cfg.ExpiryMinutes) * time.Minute),
		TopUpWindowExpiresAt: now.Add(time.Duration(c.cfg.TopUpWindowMinutes) * time.Minute),
		CreatedAt:            now,
	}
	if err := database.CreateCryptoAddress(c.db, &address); err != nil {
		return nil, errors.Wrap(ErrCheckoutFailed, err.Error())
	}

	snapshot := database.PriceSnapshot{
		OrderID:     order.ID,
		CoinSymbol:  coin,
		USDPrice:    price,
		PriceSource: source,
		CreatedAt:   now,
	}
	if err := database.CreatePriceSnapshot(c.db, &snapshot); err != nil {
		return nil, errors.Wrap(ErrCheckoutFailed, err.Error())
	}

	if err := database.CreateAuditEvent(c.db, database.AuditAddressGenerated, order.ID, &address.ID, map[string]interface{}{
		"coin_symbol":      coin,
		"derivation_index": index,
		"derivation_path":  derived.DerivationPath,
		"address_type":     database.AddressTypeReceive,
		"expected_amount":  cryptoAmount.String(),
		"price_usd":        price.String(),
		"price_source":     source,
	}); err != nil {
		logger.Error("failed to audit address generation for order %s: %v", order.Reference, err)
	}

	logger.Info("crypto order %s: %s %s to %s (index %d, price %s USD via %s)",
		order.Reference, cryptoAmount, coin, derived.Address, index, price, source)

	return &PaymentInstructions{
		OrderID:                   order.Reference,
		Coin:                      coin,
		Network:                   coinCfg.Network,
		Address:                   derived.Address,
		DerivationPath:            derived.DerivationPath,
		DerivationIndex:           index,
		Amount:                    cryptoAmount,
		AmountFormatted:           fmt.Sprintf("%s %s", cryptoAmount.StringFixed(8), coin),
		EstimatedNetworkFee:       coinCfg.EstimatedFee,
		RecommendedTotal:          recommendedTotal,
		RecommendedTotalFormatted: fmt.Sprintf("%s %s", recommendedTotal.StringFixed(8), coin),
		USDAmount:                 totalUSD,
		CoinPriceUSD:              price,
		ExpiresAt:                 address.ExpiresAt,
		TopUpWindowExpiresAt:      address.TopUpWindowExpiresAt,
		ConfirmationsRequired:     coinCfg.Confirmations,
		QRData:                    address.QRData(),
		WarningMessage: fmt.Sprintf(
			"Network fees are buyer's responsibility. Send at least %s %s. Recommended amount with fees: %s %s",
			cryptoAmount.StringFixed(8), coin, recommendedTotal.StringFixed(8), coin),
		SupportedCoins: utils.Keys(c.coins),
	}, nil
}

func (c *Checkout) validate(userID string, items []CartItem, minecraftUsername, coin string) (config.CoinConfig, error) {
	var coinCfg config.CoinConfig
	if userID == "" {
		return coinCfg, errors.Wrap(ErrInvalidRequest, "user not authenticated")
	}
	if len(items) == 0 {
		return coinCfg, errors.Wrap(ErrInvalidRequest, "no items provided")
	}
	for _, item := range items {
		if !item.Price.IsPositive() || item.Quantity <= 0 {
			return coinCfg, errors.Wrap(ErrInvalidRequest, "invalid item price or quantity")
		}
	}
	if strings.TrimSpace(minecraftUsername) == "" {
		return coinCfg, errors.Wrap(ErrInvalidRequest, "minecraft username is required")
	}
	coinCfg, ok := c.coins[coin]
	if !ok {
		return coinCfg, errors.Wrap(ErrUnsupportedCoin, coin)
	}
	// A coin without key material is a configuration error, not a coin
	// to silently skip.
	if coinCfg.SigningKey() == "" {
		return coinCfg, errors.Wrapf(ErrUnsupportedCoin, "missing signing key for %s", coin)
	}
	return coinCfg, nil
}
