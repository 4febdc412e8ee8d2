package routes

import (
	"net/http"

	"github.com/lilfrag140-ops/arcane-arsenal-v3/payments"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/pricing"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/services/api"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/services/context"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/services/utils"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

type CreateCheckoutRequest struct {
	Items             []payments.CartItem `json:"items" validate:"required,min=1,dive"`
	Coin              string              `json:"coin" validate:"required,coin-symbol"`
	MinecraftUsername string              `json:"minecraftUsername" validate:"required,min=3,max=16"`
}

type checkoutRouteHandlers struct {
	checkout *payments.Checkout
}

func newCheckoutRouteHandlers(ctx context.ServicesContext) *checkoutRouteHandlers {
	return &checkoutRouteHandlers{
		checkout: ctx.Checkout(),
	}
}

func (rh *checkoutRouteHandlers) createCryptoCheckout(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.AuthenticatedUser(w, r)
	if !ok {
		return
	}
	var request CreateCheckoutRequest
	if !utils.DecodeBody(w, r, &request) {
		return
	}

	instructions, err := rh.checkout.CreateCryptoOrder(
		r.Context(), userID, request.Items, request.MinecraftUsername, request.Coin)
	if err != nil {
		writeCheckoutError(w, err)
		return
	}
	utils.WriteApiResponseOk(w, instructions)
}

func writeCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, payments.ErrUnsupportedCoin):
		utils.WriteApiResponseError(w, api.ApiResStatusInvalidRequest,
			"unsupported coin", err.Error())
	case errors.Is(err, payments.ErrInvalidRequest):
		utils.WriteApiResponseError(w, api.ApiResStatusInvalidRequest,
			"invalid request", err.Error())
	case errors.Is(err, pricing.ErrPriceUnavailable):
		utils.WriteApiResponseError(w, api.ApiResStatusUnavailable,
			"price lookup failed, please retry", err.Error())
	default:
		utils.WriteApiResponseError(w, api.ApiResStatusError,
			"checkout failed", err.Error())
	}
}

func AddCheckoutRoutes(router *mux.Router, ctx context.ServicesContext) {
	rh := newCheckoutRouteHandlers(ctx)
	subrouter := router.PathPrefix("/payments/crypto").Subrouter()

	subrouter.HandleFunc("/checkout", rh.createCryptoCheckout).Methods(http.MethodPost)
}
