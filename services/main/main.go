package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/lilfrag140-ops/arcane-arsenal-v3/logger"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/services/context"
	"github.com/lilfrag140-ops/arcane-arsenal-v3/services/routes"

	"github.com/gorilla/mux"
)

func main() {
	ctx, err := context.BuildContext()
	if err != nil {
		fmt.Printf("%v\n", err)
		return
	}
	logger.InitFromConfig(ctx.Config().Logger)

	router := mux.NewRouter()
	routes.AddCheckoutRoutes(router, ctx)
	routes.AddStatusRoutes(router, ctx)
	routes.AddOrderRoutes(router, ctx)
	routes.AddMonitorRoutes(router, ctx)

	address := ctx.Config().Services.Address
	srv := &http.Server{
		Handler: router,
		Addr:    address,
		// Good practice: enforce timeouts for servers you create -- config?
		// WriteTimeout: 15 * time.Second,
		// ReadTimeout:  15 * time.Second,
	}

	cancelChan := make(chan os.Signal, 1)
	signal.Notify(cancelChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting server on %s", address)
		err := srv.ListenAndServe()
		if err != nil {
			logger.Error("Server error: %v", err)
		}
	}()

	<-cancelChan
	logger.Info("Shutting down server")
}
