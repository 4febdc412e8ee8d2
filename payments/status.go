package payments

import (
	"fmt"
	"sort"
	"time"

	"github.com/lilfrag140-ops/arcane-arsenal-v3/database"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/utils"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AddressInfo struct {
	Coin                 string          `json:"coin"`
	Address              string          `json:"address"`
	DerivationPath       string          `json:"derivationPath"`
	DerivationIndex      uint32          `json:"derivationIndex"`
	AddressType          string          `json:"addressType"`
	ExpectedAmount       decimal.Decimal `json:"expectedAmount"`
	EstimatedNetworkFee  decimal.Decimal `json:"estimatedNetworkFee"`
	RecommendedTotal     decimal.Decimal `json:"recommendedTotal"`
	QRData               string          `json:"qrData"`
	ExpiresAt            time.Time       `json:"expiresAt"`
	TopUpWindowExpiresAt time.Time       `json:"topUpWindowExpiresAt"`
}

type TransactionInfo struct {
	TxHash               string          `json:"txHash"`
	Coin                 string          `json:"coin"`
	Amount               decimal.Decimal `json:"amount"`
	Confirmations        int64           `json:"confirmations"`
	BlockHeight          *int64          `json:"blockHeight"`
	DetectedAt           time.Time       `json:"detectedAt"`
	ConfirmedAt          *time.Time      `json:"confirmedAt"`
	Status               string          `json:"status"`
	ConfirmationProgress string          `json:"confirmationProgress"`
	ExplorerURL          string          `json:"explorerUrl"`
}

type TimeRemaining struct {
	Hours         int  `json:"hours"`
	Minutes       int  `json:"minutes"`
	Expired       bool `json:"expired"`
	IsTopUpWindow bool `json:"isTopUpWindow"`
}

type AvailableActions struct {
	CanTopUp         bool `json:"canTopUp"`
	CanRequestRefund bool `json:"canRequestRefund"`
	NeedsUserAction  bool `json:"needsUserAction"`
}

type PriceInfo struct {
	CoinSymbol   string          `json:"coinSymbol"`
	USDPrice     decimal.Decimal `json:"usdPrice"`
	PriceSource  string          `json:"priceSource"`
	SnapshotTime time.Time       `json:"snapshotTime"`
}

type PaymentStatus struct {
	OrderID                string                       `json:"orderId"`
	PaymentStatus          database.CryptoPaymentStatus `json:"paymentStatus"`
	StatusMessage          string                       `json:"statusMessage"`
	IsInTopUpWindow        bool                         `json:"isInTopUpWindow"`
	TotalAmountUSD         decimal.Decimal              `json:"totalAmountUSD"`
	TotalReceived          decimal.Decimal              `json:"totalReceived"`
	TotalConfirmedReceived decimal.Decimal              `json:"totalConfirmedReceived"`
	ExpectedAmount         decimal.Decimal              `json:"expectedAmount"`
	UnderpaidAmount        decimal.Decimal              `json:"underpaidAmount"`
	OverpaidAmount         decimal.Decimal              `json:"overpaidAmount"`
	ConfirmationsRequired  int64                        `json:"confirmationsRequired"`
	Addresses              []AddressInfo                `json:"addresses"`
	Transactions           []TransactionInfo            `json:"transactions"`
	TimeRemaining          TimeRemaining                `json:"timeRemaining"`
	MinecraftUsername      string                       `json:"minecraftUsername"`
	OrderStatus            database.OrderStatus         `json:"orderStatus"`
	PriceInfo              *PriceInfo                   `json:"priceInfo"`
	AvailableActions       AvailableActions             `json:"availableActions"`
	LastChecked            time.Time                    `json:"lastChecked"`
}

// StatusService derives the authoritative payment status for an order.
// Always computed fresh from addresses and transactions; the order row's
// denormalized crypto fields are never trusted.
type StatusService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewStatusService(db *gorm.DB) *StatusService {
	return &StatusService{db: db, now: time.Now}
}

func (s *StatusService) GetStatus(reference string, userID string) (*PaymentStatus, error) {
	order, err := database.FetchOrderForUser(s.db, reference, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFoundOrForbidden
		}
		return nil, err
	}

	addresses, err := database.FetchAddressesForOrder(s.db, order.ID)
	if err != nil {
		return nil, err
	}
	addressIDs := make([]uint64, len(addresses))
	for i, a := range addresses {
		addressIDs[i] = a.ID
	}
	var txs []database.CryptoTransaction
	if len(addressIDs) > 0 {
		txs, err = database.FetchTransactionsForAddresses(s.db, addressIDs)
		if err != nil {
			return nil, err
		}
	}
	snapshot, err := database.FetchPriceSnapshotForOrder(s.db, order.ID)
	if err != nil {
		return nil, err
	}

	status := ComputeStatus(order, addresses, txs, snapshot, s.now())
	return &status, nil
}

// ComputeStatus is the pure aggregation over an order's loaded rows. The
// precedence is total and exclusive: exactly one status applies for any
// combination of expiry and received amounts.
func ComputeStatus(
	order database.Order,
	addresses []database.CryptoAddress,
	txs []database.CryptoTransaction,
	snapshot *database.PriceSnapshot,
	now time.Time,
) PaymentStatus {
	expected := decimal.Zero
	isExpired := false
	isInTopUpWindow := false
	for _, a := range addresses {
		expected = expected.Add(a.ExpectedAmount)
		if a.IsExpired(now) {
			isExpired = true
		}
		if a.InTopUpWindow(now) {
			isInTopUpWindow = true
		}
	}
	if len(addresses) == 0 {
		expected = order.TotalAmount
	}

	addressByID := utils.ArrayToMap(addresses, func(a database.CryptoAddress) uint64 { return a.ID })

	totalReceived := decimal.Zero
	totalConfirmed := decimal.Zero
	for _, tx := range txs {
		totalReceived = totalReceived.Add(tx.Amount)
		if tx.IsConfirmed(order.ConfirmationsRequired) {
			totalConfirmed = totalConfirmed.Add(tx.Amount)
		}
	}

	underpaid := decimal.Max(decimal.Zero, expected.Sub(totalConfirmed))
	overpaid := decimal.Max(decimal.Zero, totalConfirmed.Sub(expected))

	var status database.CryptoPaymentStatus
	var message string
	switch {
	case isExpired && !isInTopUpWindow && totalConfirmed.LessThan(expected):
		status = database.CryptoPaymentExpired
		message = "Payment window expired"
	case totalConfirmed.GreaterThanOrEqual(expected) && overpaid.IsPositive():
		status = database.CryptoPaymentOverpaid
		message = fmt.Sprintf("Payment confirmed (overpaid by %s)", overpaid.StringFixed(8))
	case totalConfirmed.GreaterThanOrEqual(expected):
		status = database.CryptoPaymentPaid
		message = "Payment confirmed"
	case totalReceived.GreaterThanOrEqual(expected):
		status = database.CryptoPaymentPendingConfirmations
		message = fmt.Sprintf("Payment detected, awaiting %d confirmations", order.ConfirmationsRequired)
	case totalReceived.IsPositive():
		status = database.CryptoPaymentPartial
		message = fmt.Sprintf("Partial payment received (%s remaining)", underpaid.StringFixed(8))
		if isInTopUpWindow {
			message += " - Top-up window active"
		}
	default:
		status = database.CryptoPaymentPending
		message = "Awaiting payment"
	}

	return PaymentStatus{
		OrderID:                order.Reference,
		PaymentStatus:          status,
		StatusMessage:          message,
		IsInTopUpWindow:        isInTopUpWindow,
		TotalAmountUSD:         order.TotalAmount,
		TotalReceived:          totalReceived,
		TotalConfirmedReceived: totalConfirmed,
		ExpectedAmount:         expected,
		UnderpaidAmount:        underpaid,
		OverpaidAmount:         overpaid,
		ConfirmationsRequired:  order.ConfirmationsRequired,
		Addresses:              addressInfos(addresses),
		Transactions:           transactionInfos(txs, addressByID, order.ConfirmationsRequired),
		TimeRemaining:          timeRemaining(addresses, isInTopUpWindow, now),
		MinecraftUsername:      order.MinecraftUsername,
		OrderStatus:            order.Status,
		PriceInfo:              priceInfo(snapshot),
		AvailableActions: AvailableActions{
			CanTopUp:         isInTopUpWindow && underpaid.IsPositive(),
			CanRequestRefund: overpaid.IsPositive(),
			NeedsUserAction:  status == database.CryptoPaymentPartial || status == database.CryptoPaymentOverpaid,
		},
		LastChecked: now,
	}
}

func addressInfos(addresses []database.CryptoAddress) []AddressInfo {
	infos := make([]AddressInfo, len(addresses))
	for i, a := range addresses {
		infos[i] = AddressInfo{
			Coin:                 a.CoinSymbol,
			Address:              a.Address,
			DerivationPath:       a.DerivationPath,
			DerivationIndex:      a.DerivationIndex,
			AddressType:          string(a.AddressType),
			ExpectedAmount:       a.ExpectedAmount,
			EstimatedNetworkFee:  a.EstimatedNetworkFee,
			RecommendedTotal:     a.RecommendedTotal,
			QRData:               a.QRData(),
			ExpiresAt:            a.ExpiresAt,
			TopUpWindowExpiresAt: a.TopUpWindowExpiresAt,
		}
	}
	return infos
}

func transactionInfos(
	txs []database.CryptoTransaction,
	addressByID map[uint64]database.CryptoAddress,
	required int64,
) []TransactionInfo {
	infos := make([]TransactionInfo, len(txs))
	for i, tx := range txs {
		coin := addressByID[tx.CryptoAddressID].CoinSymbol
		status := "pending"
		if tx.IsConfirmed(required) {
			status = "confirmed"
		}
		infos[i] = TransactionInfo{
			TxHash:               tx.TxHash,
			Coin:                 coin,
			Amount:               tx.Amount,
			Confirmations:        tx.Confirmations,
			BlockHeight:          tx.BlockHeight,
			DetectedAt:           tx.DetectedAt,
			ConfirmedAt:          tx.ConfirmedAt,
			Status:               status,
			ConfirmationProgress: fmt.Sprintf("%d/%d", tx.Confirmations, required),
			ExplorerURL:          ExplorerURL(coin, tx.TxHash),
		}
	}
	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].DetectedAt.After(infos[j].DetectedAt)
	})
	return infos
}

// Time remaining counts against the top-up window once past the hard
// expiry, otherwise against the hard expiry itself.
func timeRemaining(addresses []database.CryptoAddress, isInTopUpWindow bool, now time.Time) TimeRemaining {
	if len(addresses) == 0 {
		return TimeRemaining{Expired: true}
	}
	relevant := addresses[0].ExpiresAt
	if isInTopUpWindow {
		relevant = addresses[0].TopUpWindowExpiresAt
	}
	remaining := relevant.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return TimeRemaining{
		Hours:         int(remaining / time.Hour),
		Minutes:       int((remaining % time.Hour) / time.Minute),
		Expired:       remaining == 0,
		IsTopUpWindow: isInTopUpWindow,
	}
}

func priceInfo(snapshot *database.PriceSnapshot) *PriceInfo {
	if snapshot == nil {
		return nil
	}
	return &PriceInfo{
		CoinSymbol:   snapshot.CoinSymbol,
		USDPrice:     snapshot.USDPrice,
		PriceSource:  snapshot.PriceSource,
		SnapshotTime: snapshot.CreatedAt,
	}
}
