package http

import (
	"github.com/furnaiture/backend/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(NewRateLimiter(cfg.RateLimit.PerIP)))
	{
		v1.POST("/recommend", handler.Recommend)

		analytics := v1.Group("/analytics")
		{
			analytics.GET("/summary", handler.Summary)
			analytics.GET("/distribution/:field", handler.Distribution)
		}

		products := v1.Group("/products")
		{
			products.GET("", handler.Products)
			products.GET("/:id", handler.Product)
		}

		v1.POST("/catalog/reload", handler.ReloadCatalog)
	}

	return router
}
