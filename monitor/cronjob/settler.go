package cronjob

import (
	"time"

	"github.com/lilfrag140-ops/arcane-arsenal-v3/database"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/logger"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/monitor/config"
	monitorctx "github.com/lilfrag140-ops/arcane-arsenal-v3/monitor/context"

	"gorm.io/gorm"
)

// Settlement of expired payment windows runs on its own schedule so
// orders still expire when every chain provider is unreachable.
type settlerCronjob struct {
	config config.CronjobConfig
	db     *gorm.DB
	now    func() time.Time
}

func NewSettlerCronjob(ctx monitorctx.MonitorContext) Cronjob {
	return &settlerCronjob{
		config: ctx.Config().SettlerCronjob,
		db:     ctx.DB(),
		now:    time.Now,
	}
}

func (c *settlerCronjob) Name() string {
	return "settler"
}

func (c *settlerCronjob) Enabled() bool {
	return c.config.Enabled
}

func (c *settlerCronjob) Timeout() time.Duration {
	return time.Duration(c.config.TimeoutSeconds) * time.Second
}

func (c *settlerCronjob) OnStart() error {
	return nil
}

func (c *settlerCronjob) Call() error {
	result, err := database.SettleExpiredOrders(c.db, c.now())
	if err != nil {
		return err
	}
	if result.Expired > 0 || result.Flagged > 0 {
		logger.Info("settled %d expired orders, flagged %d", result.Expired, result.Flagged)
	}
	return nil
}
