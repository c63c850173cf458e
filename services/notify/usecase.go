package notify

import (
	"context"

	"github.com/piresc/intranet-notify/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_usecase.go -package=mocks github.com/piresc/intranet-notify/services/notify NotifyUC

// NotifyUC represents the notification usecase interface
type NotifyUC interface {
	// Authenticate resolves a session cookie into the identity of a connection
	Authenticate(ctx context.Context, cookie string) (*models.Identity, error)

	// publishing
	Broadcast(ctx context.Context, req *models.BroadcastRequest) (int, error)
	BroadcastResourceEvent(ctx context.Context, req *models.ResourceEventRequest) (int, error)
	NotifyAction(ctx context.Context, req *models.ActionNotificationRequest) (int, error)

	Connections(ctx context.Context) models.ConnectionStats
}
