package http

import (
	"github.com/gin-gonic/gin"
	"github.com/platewise/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		cart := v1.Group("/cart")
		{
			cart.POST("/sessions", handler.CreateSession)
			cart.GET("/sessions/:id", handler.GetSnapshot)
			cart.POST("/sessions/:id/refresh", handler.RefreshCatalog)
			cart.POST("/sessions/:id/checkout", handler.BuildCheckout)
			cart.PUT("/sessions/:id/items/:ingredient", handler.SelectCandidate)
			cart.DELETE("/sessions/:id/items/:ingredient", handler.RemoveIngredient)
			cart.POST("/sessions/:id/items/:ingredient/exclude", handler.ExcludeIngredient)
			cart.POST("/sessions/:id/items/:ingredient/include", handler.IncludeIngredient)
		}
	}

	return router
}
