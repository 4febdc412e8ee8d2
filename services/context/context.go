package context

import (
	"github.com/lilfrag140-ops/arcane-arsenal-v3/database"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/monitor/clients"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/monitor/sweep"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/payments"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/pricing"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/services/config"

	"gorm.io/gorm"
)

type ServicesContext interface {
	Config() *config.Config
	DB() *gorm.DB
	Checkout() *payments.Checkout
	StatusService() *payments.StatusService
	SweepEngine() *sweep.Engine
}

type servicesContext struct {
	config        *config.Config
	db            *gorm.DB
	checkout      *payments.Checkout
	statusService *payments.StatusService
	sweepEngine   *sweep.Engine
}

func BuildContext() (ServicesContext, error) {
	ctx := servicesContext{}

	cfg, err := config.BuildConfig()
	if err != nil {
		return nil, err
	}
	ctx.config = cfg

	ctx.db, err = database.ConnectAndInitialize(&cfg.DB)
	if err != nil {
		return nil, err
	}

	oracle := pricing.NewOracle(cfg.Pricing)
	ctx.checkout = payments.NewCheckout(ctx.db, oracle, cfg.Coins, cfg.Checkout)
	ctx.statusService = payments.NewStatusService(ctx.db)
	addressClients := clients.BuildClients(cfg.Providers, cfg.Coins)
	ctx.sweepEngine = sweep.NewEngine(ctx.db, addressClients, 0)
	return &ctx, nil
}

func (c *servicesContext) Config() *config.Config { return c.config }

func (c *servicesContext) DB() *gorm.DB { return c.db }

func (c *servicesContext) Checkout() *payments.Checkout { return c.checkout }

func (c *servicesContext) StatusService() *payments.StatusService { return c.statusService }

func (c *servicesContext) SweepEngine() *sweep.Engine { return c.sweepEngine }
