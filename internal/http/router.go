// Package http exposes satellite stress calculations over HTTP.
package http

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go.ngs.io/satstress/internal/usecase"
)

// SetupRouter creates and configures the Gin router. allowedOrigins is a
// comma-separated list; empty allows all origins.
func SetupRouter(stressUC *usecase.StressUseCase, allowedOrigins string) *gin.Engine {
	router := gin.Default()

	// Setup CORS middleware.
	corsConfig := cors.DefaultConfig()
	if allowedOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(allowedOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	// Create handler.
	handler := NewHandler(stressUC)

	// API v1 routes.
	v1 := router.Group("/v1")
	v1.GET("/satellite", handler.GetSatellite)
	v1.GET("/forcings", handler.GetForcings)
	v1.GET("/stress", handler.GetStress)

	// Health check.
	router.GET("/health", handler.HealthCheck)

	return router
}
