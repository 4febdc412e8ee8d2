package context

import (
	"github.com/lilfrag140-ops/arcane-arsenal-v3/database"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/monitor/config"

	"gorm.io/gorm"
)

type MonitorContext interface {
	Config() *config.Config
	DB() *gorm.DB
}

type monitorContext struct {
	config *config.Config
	db     *gorm.DB
}

func BuildContext() (MonitorContext, error) {
	ctx := monitorContext{}

	cfg, err := config.BuildConfig()
	if err != nil {
		return nil, err
	}
	ctx.config = cfg

	ctx.db, err = database.ConnectAndInitialize(&cfg.DB)
	if err != nil {
		return nil, err
	}
	return &ctx, nil
}

func (c *monitorContext) Config() *config.Config { return c.config }

func (c *monitorContext) DB() *gorm.DB { return c.db }
