package routes

import (
	"net/http"
	"time"

	"github.com/lilfrag140-ops/arcane-arsenal-v3/database"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/services/context"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/services/utils"
	sharedUtils "github.com/lilfrag140-ops/arcane-arsenal-v3/utils"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderHistoryRequest struct {
	PaginatedRequest
}

type OrderHistoryItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type OrderHistoryEntry struct {
	Reference           string                       `json:"reference"`
	TotalAmount         decimal.Decimal              `json:"totalAmount"`
	Status              database.OrderStatus         `json:"status"`
	PaymentMethod       database.PaymentMethod       `json:"paymentMethod"`
	CryptoPaymentStatus database.CryptoPaymentStatus `json:"cryptoPaymentStatus,omitempty"`
	MinecraftUsername   string                       `json:"minecraftUsername"`
	CreatedAt           time.Time                    `json:"createdAt"`
	Items               []OrderHistoryItem           `json:"items"`
}

type OrderHistoryResponse struct {
	Orders []OrderHistoryEntry `json:"orders"`
}

type orderRouteHandlers struct {
	db *gorm.DB
}

func newOrderRouteHandlers(ctx context.ServicesContext) *orderRouteHandlers {
	return &orderRouteHandlers{
		db: ctx.DB(),
	}
}

func (rh *orderRouteHandlers) listOrderHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.AuthenticatedUser(w, r)
	if !ok {
		return
	}
	var request OrderHistoryRequest
	if !utils.DecodeBody(w, r, &request) {
		return
	}

	orders, err := database.FetchUserOrders(rh.db, userID, request.Offset, request.limitOrDefault())
	if utils.HandleInternalServerError(w, err) {
		return
	}

	orderIDs := make([]uint64, len(orders))
	for i, order := range orders {
		orderIDs[i] = order.ID
	}
	items, err := database.FetchOrderItemsForOrders(rh.db, orderIDs)
	if utils.HandleInternalServerError(w, err) {
		return
	}
	itemsByOrder := sharedUtils.GroupBy(items, func(item database.OrderItem) uint64 { return item.OrderID })

	entries := make([]OrderHistoryEntry, len(orders))
	for i, order := range orders {
		historyItems := make([]OrderHistoryItem, 0, len(itemsByOrder[order.ID]))
		for _, item := range itemsByOrder[order.ID] {
			historyItems = append(historyItems, OrderHistoryItem{
				Name:     item.Name,
				Quantity: item.Quantity,
				Price:    item.Price,
			})
		}
		entries[i] = OrderHistoryEntry{
			Reference:           order.Reference,
			TotalAmount:         order.TotalAmount,
			Status:              order.Status,
			PaymentMethod:       order.PaymentMethod,
			CryptoPaymentStatus: order.CryptoPaymentStatus,
			MinecraftUsername:   order.MinecraftUsername,
			CreatedAt:           order.CreatedAt,
			Items:               historyItems,
		}
	}
	utils.WriteApiResponseOk(w, OrderHistoryResponse{Orders: entries})
}

func AddOrderRoutes(router *mux.Router, ctx context.ServicesContext) {
	rh := newOrderRouteHandlers(ctx)
	subrouter := router.PathPrefix("/orders").Subrouter()

	subrouter.HandleFunc("/history", rh.listOrderHistory).Methods(http.MethodPost)
}
