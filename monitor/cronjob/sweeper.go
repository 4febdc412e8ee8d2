package cronjob

import (
	"context"
	"time"

	"github.com/lilfrag140-ops/arcane-arsenal-v3/logger"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/monitor/clients"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/monitor/config"
	monitorctx "github.com/lilfrag140-ops/arcane-arsenal-v3/monitor/context"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/monitor/sweep"
)

type sweeperCronjob struct {
	config config.CronjobConfig
	engine *sweep.Engine
}

func NewSweeperCronjob(ctx monitorctx.MonitorContext) Cronjob {
	cfg := ctx.Config()
	addressClients := clients.BuildClients(cfg.Providers, cfg.Coins)
	return &sweeperCronjob{
		config: cfg.SweeperCronjob,
		engine: sweep.NewEngine(ctx.DB(), addressClients, cfg.SweeperCronjob.RequestsPerSecond),
	}
}

func (c *sweeperCronjob) Name() string {
	return "sweeper"
}

func (c *sweeperCronjob) Enabled() bool {
	return c.config.Enabled
}

func (c *sweeperCronjob) Timeout() time.Duration {
	return time.Duration(c.config.TimeoutSeconds) * time.Second
}

func (c *sweeperCronjob) OnStart() error {
	return nil
}

func (c *sweeperCronjob) Call() error {
	summary, err := c.engine.RunSweep(context.Background())
	if err != nil {
		return err
	}
	if summary.NewTransactions > 0 || summary.ConfirmationsUpdated > 0 ||
		summary.OrdersExpired > 0 || summary.OrdersFlagged > 0 {
		logger.Info("sweep finished: %d addresses, %d new transactions, %d confirmation updates, %d expired, %d flagged",
			summary.AddressesProcessed, summary.NewTransactions, summary.ConfirmationsUpdated,
			summary.OrdersExpired, summary.OrdersFlagged)
	} else {
		logger.Debug("sweep finished: %d addresses, nothing new", summary.AddressesProcessed)
	}
	return nil
}
