package routes

import (
	"net/http"

	"github.com/lilfrag140-ops/arcane-arsenal-v3/payments"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/services/api"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/services/context"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/services/utils"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

type statusRouteHandlers struct {
	status *payments.StatusService
}

func newStatusRouteHandlers(ctx context.ServicesContext) *statusRouteHandlers {
	return &statusRouteHandlers{
		status: ctx.StatusService(),
	}
}

func (rh *statusRouteHandlers) getCryptoPaymentStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.AuthenticatedUser(w, r)
	if !ok {
		return
	}
	reference := mux.Vars(r)["reference"]

	status, err := rh.status.GetStatus(reference, userID)
	if err != nil {
		if errors.Is(err, payments.ErrNotFoundOrForbidden) {
			utils.WriteApiResponseError(w, api.ApiResStatusNotFound,
				"order not found", "")
			return
		}
		utils.WriteApiResponseError(w, api.ApiResStatusError,
			"status lookup failed", err.Error())
		return
	}
	utils.WriteApiResponseOk(w, status)
}

func AddStatusRoutes(router *mux.Router, ctx context.ServicesContext) {
	rh := newStatusRouteHandlers(ctx)
	subrouter := router.PathPrefix("/payments/crypto").Subrouter()

	subrouter.HandleFunc("/{reference}/status", rh.getCryptoPaymentStatus).Methods(http.MethodGet)
}
