package http

import (
	"github.com/gin-gonic/gin"
	"github.com/kurvpilot/backend/config"
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
		basket := v1.Group("/basket")
		{
			basket.POST("/fill", handler.FillBasket)
		}

		reports := v1.Group("/reports")
		{
			reports.GET("/latest", handler.LatestReport)
			reports.GET("/:id", handler.ReportByID)
		}

		engine := v1.Group("/engine")
		{
			engine.POST("/initialize", handler.InitializeEngine)
			engine.GET("/status", handler.EngineStatus)
			engine.GET("/models", handler.EngineModels)
		}
	}

	return router
}
