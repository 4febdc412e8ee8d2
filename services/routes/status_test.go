package routes

import (
	gocontext "context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lilfrag140-ops/arcane-arsenal-v3/monitor/clients"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/payments"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/services/api"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/services/context"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getStatus(t *testing.T, ctx context.ServicesContext, reference, token string) *httptest.ResponseRecorder {
	t.Helper()
	rh := newStatusRouteHandlers(ctx)

	r := httptest.NewRequest(http.MethodGet, "/payments/crypto/"+reference+"/status", nil)
	r = mux.SetURLVars(r, map[string]string{"reference": reference})
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	rh.getCryptoPaymentStatus(w, r)
	return w
}

func checkoutOrder(t *testing.T, ctx context.ServicesContext, userID string) *payments.PaymentInstructions {
	t.Helper()
	instructions, err := ctx.Checkout().CreateCryptoOrder(
		gocontext.Background(), userID, testCart(), "Steve42", "BTC")
	require.NoError(t, err)
	return instructions
}

func TestGetCryptoPaymentStatus(t *testing.T) {
	ctx, chainFake := newTestServices(t)
	instructions := checkoutOrder(t, ctx, "user-1")

	w := getStatus(t, ctx, instructions.OrderID, "user-1")
	require.Equal(t, http.StatusOK, w.Result().StatusCode)

	response := decodeWrapper[payments.PaymentStatus](t, w.Result().Body)
	require.Equal(t, api.ApiResStatusOk, response.Status)
	status := response.Data
	assert.Equal(t, "pending", string(status.PaymentStatus))
	assert.NotEmpty(t, status.StatusMessage)
	assert.True(t, status.ExpectedAmount.Equal(decimal.RequireFromString("0.001")))
	assert.False(t, status.TimeRemaining.Expired)
	assert.False(t, status.AvailableActions.CanTopUp)
	require.NotNil(t, status.PriceInfo)
	assert.Equal(t, "fallback", status.PriceInfo.PriceSource)

	// A confirmed payment flips the derived status to paid.
	chainFake.Activity[instructions.Address] = []clients.AddressActivity{{
		TxHash:        "aa11",
		Confirmations: 3,
		Amount:        decimal.RequireFromString("0.001"),
	}}
	_, err := ctx.SweepEngine().RunSweep(gocontext.Background())
	require.NoError(t, err)

	w = getStatus(t, ctx, instructions.OrderID, "user-1")
	response = decodeWrapper[payments.PaymentStatus](t, w.Result().Body)
	status = response.Data
	assert.Equal(t, "paid", string(status.PaymentStatus))
	require.Len(t, status.Transactions, 1)
	assert.Equal(t, "confirmed", status.Transactions[0].Status)
	assert.Equal(t, "3/2", status.Transactions[0].ConfirmationProgress)
	assert.Contains(t, status.Transactions[0].ExplorerURL, "aa11")
}

func TestGetCryptoPaymentStatusHidesForeignOrders(t *testing.T) {
	ctx, _ := newTestServices(t)
	instructions := checkoutOrder(t, ctx, "user-1")

	// A foreign order and a missing one are the same response.
	w := getStatus(t, ctx, instructions.OrderID, "user-2")
	response := decodeWrapper[any](t, w.Result().Body)
	assert.Equal(t, api.ApiResStatusNotFound, response.Status)

	w = getStatus(t, ctx, "no-such-reference", "user-1")
	response = decodeWrapper[any](t, w.Result().Body)
	assert.Equal(t, api.ApiResStatusNotFound, response.Status)
}
