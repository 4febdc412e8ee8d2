package context

import (
	"time"

	"github.com/lilfrag140-ops/arcane-arsenal-v3/database"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/monitor/clients"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/monitor/sweep"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/payments"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/pricing"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/services/config"
)

// BuildTestContext wires the context onto the in-memory test database and
// the given price oracle and chain clients.
func BuildTestContext(
	cfg *config.Config,
	oracle *pricing.Oracle,
	addressClients map[string]clients.AddressClient,
) (ServicesContext, error) {
	ctx := servicesContext{}
	var err error

	ctx.config = cfg
	ctx.db, err = database.ConnectAndInitializeTestDB()
	if err != nil {
		return nil, err
	}
	ctx.checkout = payments.NewCheckout(ctx.db, oracle, cfg.Coins, cfg.Checkout)
	ctx.statusService = payments.NewStatusService(ctx.db)
	ctx.sweepEngine = sweep.NewTestEngine(ctx.db, addressClients, time.Now)
	return &ctx, nil
}
