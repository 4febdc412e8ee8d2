package routes

import (
	"crypto/subtle"
	"net/http"

	"github.com/lilfrag140-ops/arcane-arsenal-v3/monitor/sweep"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/services/api"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/services/config"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/services/context"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/services/utils"

	"github.com/gorilla/mux"
)

// Operational routes. A manual sweep runs the same engine as the monitor
// binary, so support can refresh a customer's payment on demand instead of
// waiting for the next scheduled pass.
type monitorRouteHandlers struct {
	cfg    config.ServicesConfig
	engine *sweep.Engine
}

func newMonitorRouteHandlers(ctx context.ServicesContext) *monitorRouteHandlers {
	return &monitorRouteHandlers{
		cfg:    ctx.Config().Services,
		engine: ctx.SweepEngine(),
	}
}

func (rh *monitorRouteHandlers) triggerSweep(w http.ResponseWriter, r *http.Request) {
	if !rh.authorized(r) {
		utils.WriteApiResponseError(w, api.ApiResStatusUnauthorized,
			"invalid admin key", "")
		return
	}

	summary, err := rh.engine.RunSweep(r.Context())
	if err != nil {
		utils.WriteApiResponseError(w, api.ApiResStatusError,
			"sweep failed", err.Error())
		return
	}
	utils.WriteApiResponseOk(w, summary)
}

func (rh *monitorRouteHandlers) authorized(r *http.Request) bool {
	if rh.cfg.AdminAPIKey == "" {
		return false
	}
	key := r.Header.Get("X-Admin-Key")
	return subtle.ConstantTimeCompare([]byte(key), []byte(rh.cfg.AdminAPIKey)) == 1
}

func AddMonitorRoutes(router *mux.Router, ctx context.ServicesContext) {
	rh := newMonitorRouteHandlers(ctx)
	subrouter := router.PathPrefix("/admin").Subrouter()

	subrouter.HandleFunc("/sweep", rh.triggerSweep).Methods(http.MethodPost)
}
