package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/piresc/intranet-notify/internal/pkg/logger"
	"github.com/piresc/intranet-notify/internal/pkg/models"
	nrpkg "github.com/piresc/intranet-notify/internal/pkg/newrelic"
	"github.com/piresc/intranet-notify/internal/utils"
	"github.com/piresc/intranet-notify/services/notify"
)

// NotifyHandler handles the publish API used by the other intranet services
type NotifyHandler struct {
	notifyUC notify.NotifyUC
}

// NewNotifyHandler creates a new notify HTTP handler
func NewNotifyHandler(notifyUC notify.NotifyUC) *NotifyHandler {
	return &NotifyHandler{
		notifyUC: notifyUC,
	}
}

// Broadcast fans a raw payload out to the connections matching its audience
func (h *NotifyHandler) Broadcast(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Notify.Broadcast")

	var req models.BroadcastRequest
	if err := c.Bind(&req); err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	delivered, err := h.notifyUC.Broadcast(c.Request().Context(), &req)
	if err != nil {
		return h.publishError(c, "Broadcast", err)
	}

	nrpkg.AddTransactionAttribute(txn, "broadcast.delivered", delivered)
	return c.JSON(http.StatusOK, models.DeliveryResponse{Delivered: delivered})
}

// ResourceEvent tells every connection that a resource changed
func (h *NotifyHandler) ResourceEvent(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Notify.ResourceEvent")

	var req models.ResourceEventRequest
	if err := c.Bind(&req); err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	delivered, err := h.notifyUC.BroadcastResourceEvent(c.Request().Context(), &req)
	if err != nil {
		return h.publishError(c, "ResourceEvent", err)
	}

	nrpkg.AddTransactionAttribute(txn, "resource.event", req.Event)
	return c.JSON(http.StatusOK, models.DeliveryResponse{Delivered: delivered})
}

// Notification sends a toast about a CRUD action
func (h *NotifyHandler) Notification(c echo.Context) error {
	txn := nrpkg.FromEchoContext(c)
	nrpkg.SetTransactionName(txn, "Notify.Notification")

	var req models.ActionNotificationRequest
	if err := c.Bind(&req); err != nil {
		nrpkg.NoticeTransactionError(txn, err)
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	delivered, err := h.notifyUC.NotifyAction(c.Request().Context(), &req)
	if err != nil {
		return h.publishError(c, "Notification", err)
	}

	return c.JSON(http.StatusOK, models.DeliveryResponse{Delivered: delivered})
}

// Connections reports the live connections per branch
func (h *NotifyHandler) Connections(c echo.Context) error {
	nrpkg.SetTransactionName(nrpkg.FromEchoContext(c), "Notify.Connections")
	return c.JSON(http.StatusOK, h.notifyUC.Connections(c.Request().Context()))
}

func (h *NotifyHandler) publishError(c echo.Context, endpoint string, err error) error {
	nrpkg.NoticeTransactionError(nrpkg.FromEchoContext(c), err)

	if errors.Is(err, notify.ErrInvalidPayload) || errors.Is(err, notify.ErrInvalidRequest) {
		logger.WarnCtx(c.Request().Context(), "Rejected publish request",
			logger.String("endpoint", endpoint),
			logger.Err(err))
		return utils.BadRequestResponse(c, err.Error())
	}

	logger.ErrorCtx(c.Request().Context(), "Publish request failed",
		logger.String("endpoint", endpoint),
		logger.Err(err))
	return utils.InternalServerErrorResponse(c, "Failed to deliver: "+err.Error())
}
