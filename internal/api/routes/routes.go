// Package routes defines the HTTP routes for the Roster Advisor service.
package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/rosteriq/advisor-service/internal/api/handlers"
	"github.com/rosteriq/advisor-service/internal/api/middleware"
)

// BasePath is the prefix of every API route.
const BasePath = "/api/v1/advisor"

// Config holds the dependencies for setting up routes.
type Config struct {
	HealthHandler   *handlers.HealthHandler
	SessionsHandler *handlers.SessionsHandler
	MessagesHandler *handlers.MessagesHandler
	StreamHandler   *handlers.StreamHandler
	CacheHandler    *handlers.CacheHandler
	AuthMiddleware  *middleware.AuthMiddleware
	EnableSwagger   bool
}

// Setup configures all routes on the Gin engine.
func Setup(r *gin.Engine, cfg *Config) {
	v1 := r.Group(BasePath)
	{
		// Health check routes (no auth required)
		v1.GET("/health", cfg.HealthHandler.Health)
		v1.GET("/ready", cfg.HealthHandler.Ready)
		v1.GET("/live", cfg.HealthHandler.Live)

		protected := v1.Group("")
		protected.Use(cfg.AuthMiddleware.Authenticate())

		sessions := protected.Group("/sessions")
		{
			sessions.POST("", cfg.SessionsHandler.CreateSession)
			sessions.GET("", cfg.SessionsHandler.ListSessions)
			sessions.GET("/:sessionId", cfg.SessionsHandler.GetSession)
			sessions.POST("/:sessionId/archive", cfg.SessionsHandler.ArchiveSession)

			sessions.GET("/:sessionId/messages", cfg.MessagesHandler.GetMessages)
			sessions.POST("/:sessionId/messages", cfg.MessagesHandler.SendMessage)

			sessions.GET("/:sessionId/stream", cfg.StreamHandler.StreamSSE)
			sessions.GET("/:sessionId/ws", cfg.StreamHandler.StreamWS)
		}

		protected.DELETE("/leagues/:leagueId/cache", cfg.CacheHandler.InvalidateLeague)
	}

	if cfg.EnableSwagger {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// SetupWithMiddleware sets up routes with common middleware.
func SetupWithMiddleware(r *gin.Engine, cfg *Config, corsCfg middleware.CORSConfig, loggingMw *middleware.LoggingMiddleware, errorMw *middleware.ErrorMiddleware) {
	r.Use(middleware.NewCORSMiddleware(corsCfg))
	r.Use(loggingMw.RequestLogger())
	r.Use(loggingMw.Logger())
	r.Use(errorMw.Recovery())

	r.NoRoute(middleware.NotFound())
	r.NoMethod(middleware.MethodNotAllowed())
	r.HandleMethodNotAllowed = true

	Setup(r, cfg)
}
