package http

import (
	"github.com/gin-gonic/gin"
	"github.com/skiconcierge/backend/config"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	RegisterValidators()

	router := gin.New()
	// Without trusted proxies ClientIP is the socket address and forwarded headers are ignored
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		zap.L().Warn("invalid trusted proxies, ignoring forwarded headers", zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		v1.GET("/starters", handler.ListStarters)

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", handler.CreateSession)
			sessions.GET("/:id", handler.GetSession)
			sessions.DELETE("/:id", handler.DeleteSession)
			sessions.PATCH("/:id/profile", handler.UpdateProfile)
			sessions.POST("/:id/messages", handler.SendMessage)
			sessions.POST("/:id/reset", handler.ResetSession)
		}

		recommendations := v1.Group("/recommendations")
		{
			recommendations.GET("", handler.RecommendFromCatalog)
			recommendations.POST("/extract", handler.ExtractRecommendations)
		}

		v1.GET("/retailers", handler.RetailerLinks)
	}

	return router
}
