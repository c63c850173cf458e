package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/piresc/intranet-notify/internal/pkg/middleware"
	"github.com/piresc/intranet-notify/internal/pkg/models"
	"github.com/piresc/intranet-notify/internal/pkg/websocket"
	"github.com/piresc/intranet-notify/services/notify/handler/http"
)

// Handler coordinates all protocol handlers for the notify service
type Handler struct {
	notifyHandler *http.NotifyHandler
	wsManager     *websocket.Manager
	cfg           *models.Config
}

// NewHandler creates and initializes all handlers
func NewHandler(
	notifyHandler *http.NotifyHandler,
	wsManager *websocket.Manager,
	cfg *models.Config,
) *Handler {
	return &Handler{
		notifyHandler: notifyHandler,
		wsManager:     wsManager,
		cfg:           cfg,
	}
}

// RegisterRoutes registers all protocol handlers and their routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// browsers authenticate with the session cookie during the handshake
	e.GET("/ws", h.wsManager.HandleConnection)

	// publish API for the other intranet services
	api := e.Group("/api", middleware.JWTAuthMiddleware(h.cfg.JWT))
	api.POST("/broadcast", h.notifyHandler.Broadcast)
	api.POST("/resource-events", h.notifyHandler.ResourceEvent)
	api.POST("/notifications", h.notifyHandler.Notification)
	api.GET("/connections", h.notifyHandler.Connections)
}
