package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/piresc/intranet-notify/internal/pkg/logger"
	"github.com/piresc/intranet-notify/internal/pkg/models"
	nrpkg "github.com/piresc/intranet-notify/internal/pkg/newrelic"
	"github.com/piresc/intranet-notify/services/notify"
)

// Broadcast fans a raw JSON payload out to its audience. The payload kind is taken from its type field.
func (uc *NotifyUC) Broadcast(ctx context.Context, req *models.BroadcastRequest) (int, error) {
	if req == nil || len(req.Payload) == 0 || !json.Valid(req.Payload) {
		return 0, notify.ErrInvalidPayload
	}

	kind := models.ClassifyPayload(req.Payload)
	msg := models.Message{
		Kind:     kind,
		Audience: req.Audience,
		Body:     req.Payload,
	}
	delivered, err := nrpkg.WithSegment(ctx, "Notify.Broadcast", func() (int, error) {
		return uc.hub.Broadcast(ctx, msg)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to broadcast %s: %w", kind, err)
	}

	logger.InfoCtx(ctx, "Broadcast delivered",
		logger.String("kind", kind.String()),
		logger.String("target_user_id", req.Audience.TargetUserID),
		logger.String("branch", req.Audience.Branch),
		logger.Int("delivered", delivered))
	return delivered, nil
}

// BroadcastResourceEvent tells every connection that a resource changed
func (uc *NotifyUC) BroadcastResourceEvent(ctx context.Context, req *models.ResourceEventRequest) (int, error) {
	if req == nil {
		return 0, notify.ErrInvalidRequest
	}
	event := strings.Trim(strings.TrimSpace(req.Event), "/")
	if event == "" || strings.TrimSpace(req.ItemType) == "" || strings.TrimSpace(req.ItemID) == "" {
		return 0, fmt.Errorf("%w: event, item_type and item_id are required", notify.ErrInvalidRequest)
	}

	delivered, err := nrpkg.WithSegment(ctx, "Notify.BroadcastResourceEvent", func() (int, error) {
		return uc.hub.BroadcastResourceEvent(ctx, event, req.ItemType, req.ItemID, req.UserID)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to broadcast resource event: %w", err)
	}

	logger.InfoCtx(ctx, "Resource event delivered",
		logger.String("event", event),
		logger.String("item_type", req.ItemType),
		logger.String("item_id", req.ItemID),
		logger.Int("delivered", delivered))
	return delivered, nil
}

// NotifyAction sends the toast other users see after a CRUD action.
// Without an explicit exclusion the user who performed the action is skipped.
func (uc *NotifyUC) NotifyAction(ctx context.Context, req *models.ActionNotificationRequest) (int, error) {
	if req == nil || strings.TrimSpace(req.Resource) == "" {
		return 0, fmt.Errorf("%w: resource is required", notify.ErrInvalidRequest)
	}

	toast, err := models.NewActionToast(req.Action, req.Resource, req.ResourceName, req.SourceUserID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", notify.ErrInvalidRequest, err)
	}

	audience := req.Audience
	if audience.ExcludeUserID == "" {
		audience.ExcludeUserID = req.SourceUserID
	}

	delivered, err := nrpkg.WithSegment(ctx, "Notify.NotifyAction", func() (int, error) {
		return uc.hub.Notify(ctx, toast, audience)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to send notification: %w", err)
	}

	logger.InfoCtx(ctx, "Notification delivered",
		logger.String("action", string(req.Action)),
		logger.String("resource", req.Resource),
		logger.Int("delivered", delivered))
	return delivered, nil
}

// Connections reports the live connections
func (uc *NotifyUC) Connections(_ context.Context) models.ConnectionStats {
	return uc.registry.Stats()
}
