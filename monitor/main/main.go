package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lilfrag140-ops/arcane-arsenal-v3/logger"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/monitor/context"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/monitor/runner"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/monitor/shared"
)

func main() {
	ctx, err := context.BuildContext()
	if err != nil {
		fmt.Printf("%v\n", err)
		return
	}
	logger.InitFromConfig(ctx.Config().Logger)

	cancelChan := make(chan os.Signal, 1)
	signal.Notify(cancelChan, os.Interrupt, syscall.SIGTERM)

	// Prometheus metrics
	shared.InitMetricsServer(&ctx.Config().Metrics)

	runner.Start(ctx)

	<-cancelChan
	logger.Info("Stopped crypto payment monitor")
}
