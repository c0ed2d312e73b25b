package handlers

import (
	"loopbot/internal/logger"
	"loopbot/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the HTTP layer to services and logging. The notifier is
// the same outbound channel the ingestion path uses; /test-glucose pushes
// through it.
type Handler struct {
	services *service.Service
	notifier service.Notifier
	log      *logger.Logger
}

// NewHandler constructs the HTTP handler with dependencies. notifier and
// log may be nil in tests.
func NewHandler(services *service.Service, notifier service.Notifier, log *logger.Logger) *Handler {
	return &Handler{services: services, notifier: notifier, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint stays open for liveness probes
	router.GET("/health", h.health)

	// Loop device webhook + manual test injection
	router.POST("/loop-data", h.webhookTokenMiddleware, h.ingestLoopData)
	router.GET("/test-glucose", h.webhookTokenMiddleware, h.testGlucose)

	// Live snapshot stream (HTTP upgrade) on the same port
	router.GET("/ws", h.wsConnect)

	// Versioned API endpoints (token-guarded when a secret is configured)
	api := router.Group("/api/v1", h.webhookTokenMiddleware)
	{
		api.GET("/events", h.getEvents)
	}

	return router
}
