package runner

import (
	"github.com/lilfrag140-ops/arcane-arsenal-v3/monitor/context"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/monitor/cronjob"
)

func Start(ctx context.MonitorContext) {
	sweeperCronjob := cronjob.NewSweeperCronjob(ctx)
	settlerCronjob := cronjob.NewSettlerCronjob(ctx)

	go cronjob.RunCronjob(sweeperCronjob)
	go cronjob.RunCronjob(settlerCronjob)
}
