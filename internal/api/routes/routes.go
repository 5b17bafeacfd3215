// Package routes registers the read-only facade's endpoints.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"paymentengine/internal/api/handlers"
	"paymentengine/internal/api/middleware"
	"paymentengine/internal/pkg/config"
	"paymentengine/internal/registry"
)

// RegisterRoutes wires the engine's ClientRegistry into the router.
func RegisterRoutes(router *gin.Engine, reg *registry.ClientRegistry, cfg config.APIConfig) {
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.Prometheus())

	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/accounts", handlers.MakeListAccountsHandler(reg))
	router.GET("/accounts/:id", handlers.MakeGetAccountHandler(reg))
}
