package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lilfrag140-ops/arcane-arsenal-v3/services/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOrderHistory(t *testing.T) {
	ctx, _ := newTestServices(t)
	first := checkoutOrder(t, ctx, "user-1")
	second := checkoutOrder(t, ctx, "user-1")
	checkoutOrder(t, ctx, "user-2")

	rh := newOrderRouteHandlers(ctx)
	r := httptest.NewRequest(http.MethodPost, "/orders/history", jsonToReader(t, OrderHistoryRequest{}))
	r.Header.Set("Authorization", "Bearer user-1")
	w := httptest.NewRecorder()
	rh.listOrderHistory(w, r)

	require.Equal(t, http.StatusOK, w.Result().StatusCode)
	response := decodeWrapper[OrderHistoryResponse](t, w.Result().Body)
	require.Equal(t, api.ApiResStatusOk, response.Status)

	// Only the caller's own orders come back.
	require.Len(t, response.Data.Orders, 2)
	references := []string{response.Data.Orders[0].Reference, response.Data.Orders[1].Reference}
	assert.Contains(t, references, first.OrderID)
	assert.Contains(t, references, second.OrderID)
	for _, entry := range response.Data.Orders {
		assert.Equal(t, "pending", string(entry.Status))
		assert.Len(t, entry.Items, 2)
	}
}

func TestListOrderHistoryPagination(t *testing.T) {
	ctx, _ := newTestServices(t)
	checkoutOrder(t, ctx, "user-1")
	checkoutOrder(t, ctx, "user-1")

	rh := newOrderRouteHandlers(ctx)
	r := httptest.NewRequest(http.MethodPost, "/orders/history",
		jsonToReader(t, OrderHistoryRequest{PaginatedRequest: PaginatedRequest{Offset: 1, Limit: 1}}))
	r.Header.Set("Authorization", "Bearer user-1")
	w := httptest.NewRecorder()
	rh.listOrderHistory(w, r)

	response := decodeWrapper[OrderHistoryResponse](t, w.Result().Body)
	assert.Len(t, response.Data.Orders, 1)

	// Limits above the cap fail validation.
	r = httptest.NewRequest(http.MethodPost, "/orders/history",
		jsonToReader(t, OrderHistoryRequest{PaginatedRequest: PaginatedRequest{Limit: 500}}))
	r.Header.Set("Authorization", "Bearer user-1")
	w = httptest.NewRecorder()
	rh.listOrderHistory(w, r)

	errResponse := decodeWrapper[any](t, w.Result().Body)
	assert.Equal(t, api.ApiResStatusRequestBodyError, errResponse.Status)
}
