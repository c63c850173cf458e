package notify

import (
	"context"

	"github.com/piresc/intranet-notify/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_hub.go -package=mocks github.com/piresc/intranet-notify/services/notify Hub,ConnectionRegistry

// Hub delivers messages to the live connections
type Hub interface {
	Broadcast(ctx context.Context, msg models.Message) (int, error)
	BroadcastResourceEvent(ctx context.Context, event, itemType, itemID, userID string) (int, error)
	Notify(ctx context.Context, toast models.Toast, audience models.Audience) (int, error)
}

// ConnectionRegistry reports on the live connections
type ConnectionRegistry interface {
	Stats() models.ConnectionStats
}
