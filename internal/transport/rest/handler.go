package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"cosecdesk/config"
	"cosecdesk/internal/domain"
	"cosecdesk/internal/service"
	"cosecdesk/internal/transport/websocket"
)

type Handler struct {
	services   *service.Services
	logger     *zap.Logger
	config     *config.Config
	hub        *websocket.NotificationHub
	gatherer   prometheus.Gatherer
	identities *domain.IdentityParser
}

func NewHandler(
	services *service.Services,
	logger *zap.Logger,
	config *config.Config,
	hub *websocket.NotificationHub,
	gatherer prometheus.Gatherer,
) *Handler {
	var secret string
	if config != nil {
		secret = config.Auth.JWTSecret
	}
	return &Handler{
		services:   services,
		logger:     logger,
		config:     config,
		hub:        hub,
		gatherer:   gatherer,
		identities: domain.NewIdentityParser(secret),
	}
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(h.loggerMiddleware())

	router.Use(h.errorMiddleware())

	router.Use(h.corsMiddleware())

	api := router.Group("/api/v1")
	api.Use(h.authMiddleware())
	{
		api.GET("/offerings", h.getOfferings)

		secretaries := api.Group("/secretaries")
		{
			secretaries.GET("", h.getSecretaries)
			secretaries.POST("", h.createSecretary)
			secretaries.GET("/options", h.getSecretaryOptions)
		}

		specialists := api.Group("/specialists")
		{
			specialists.GET("", h.getSpecialists)
			specialists.GET("/:id/controls", h.getSpecialistControls)
			specialists.PATCH("/:id/publish", h.publishSpecialist)
			specialists.PATCH("/:id/unpublish", h.unpublishSpecialist)
			specialists.PATCH("/:id/verify", h.verifySpecialist)
		}

		sessions := api.Group("/edit-sessions")
		{
			sessions.POST("", h.openEditSession)
			sessions.GET("/:sid", h.getEditSession)
			sessions.DELETE("/:sid", h.closeEditSession)

			sessions.PUT("/:sid/details", h.setSessionDetails)
			sessions.PUT("/:sid/offerings", h.setSessionOfferings)
			sessions.PUT("/:sid/secretary", h.setSessionSecretary)

			sessions.POST("/:sid/next", h.nextStep)
			sessions.POST("/:sid/back", h.previousStep)

			sessions.POST("/:sid/media/:slot", h.uploadSessionImage)
			sessions.DELETE("/:sid/media/:slot", h.removeSessionImage)

			sessions.GET("/:sid/review", h.reviewEditSession)
			sessions.POST("/:sid/submit", h.submitEditSession)
		}
	}

	// WebSocket toasts (no middleware - handles auth internally)
	if h.hub != nil {
		router.GET("/ws/notifications", h.hub.ServeWS)
	}

	if h.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
}
