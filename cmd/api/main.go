// cmd/api runs the read-only HTTP facade: a Gin server exposing the
// current state of every client account an in-process ClientRegistry has
// seen, plus a Prometheus /metrics endpoint.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"paymentengine/internal/api/routes"
	"paymentengine/internal/disputeindex"
	"paymentengine/internal/journal"
	"paymentengine/internal/pkg/config"
	"paymentengine/internal/pkg/logging"
	"paymentengine/internal/registry"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg)

	if cfg.API.Host == "" {
		cfg.API.Host = "localhost"
	}

	j := journal.NewInMemoryJournal()
	d := disputeindex.NewInMemory()
	reg := registry.WithTimeouts(j, d, cfg.Actor.CommandTimeout, cfg.Actor.ReadTimeout)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	routes.RegisterRoutes(router, reg, cfg.API)

	server := &http.Server{
		Addr:         cfg.API.Host + ":" + cfg.API.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logging.Info("starting read-only API server", map[string]interface{}{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	waitForShutdown(server, reg)
}

func waitForShutdown(server *http.Server, reg *registry.ClientRegistry) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info("shutting down API server", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logging.Error("server forced to shutdown", err, nil)
	}
	reg.ShutdownAll()
}
