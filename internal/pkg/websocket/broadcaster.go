package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/piresc/intranet-notify/internal/pkg/logger"
	"github.com/piresc/intranet-notify/internal/pkg/models"
)

// Broadcaster fans a message out to every matching registered client
type Broadcaster struct {
	registry  *Registry
	writeWait time.Duration
	now       func() time.Time
}

// NewBroadcaster creates a broadcaster over registry. writeWait bounds each send.
func NewBroadcaster(registry *Registry, writeWait time.Duration) *Broadcaster {
	return &Broadcaster{
		registry:  registry,
		writeWait: writeWait,
		now:       time.Now,
	}
}

// Broadcast serializes msg once and sends it to the matching clients of a registry snapshot.
// A client whose send fails is unregistered and closed; the others still receive the message.
// Cancelling ctx does not cut the fan-out short, each send is bounded by writeWait.
// It returns the number of successful deliveries.
func (b *Broadcaster) Broadcast(ctx context.Context, msg models.Message) (int, error) {
	data, err := json.Marshal(msg.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal broadcast body: %w", err)
	}

	delivered := 0
	for _, client := range b.registry.Snapshot() {
		if !client.Sendable() {
			continue
		}
		if !Matches(msg.Kind, msg.Audience, client.Identity) {
			continue
		}

		if err := client.Send(data, b.writeWait); err != nil {
			logger.WarnCtx(ctx, "Failed to send to client, pruning connection",
				logger.String("client_id", client.ID),
				logger.String("user_id", client.Identity.UserID),
				logger.Err(err))
			b.registry.Unregister(client)
			client.Close()
			continue
		}
		delivered++
	}

	logger.Debug("Broadcast completed",
		logger.String("kind", msg.Kind.String()),
		logger.Int("delivered", delivered))
	return delivered, nil
}

// BroadcastResourceEvent tells every client that a resource changed
func (b *Broadcaster) BroadcastResourceEvent(ctx context.Context, event, itemType, itemID, userID string) (int, error) {
	return b.Broadcast(ctx, models.Message{
		Kind: models.KindResource,
		Body: models.NewResourceEvent(event, itemType, itemID, userID, b.now()),
	})
}

// Notify sends a toast notification to audience
func (b *Broadcaster) Notify(ctx context.Context, toast models.Toast, audience models.Audience) (int, error) {
	return b.Broadcast(ctx, models.Message{
		Kind:     models.KindNotification,
		Audience: audience,
		Body:     toast,
	})
}

// Send broadcasts an ambient event to audience
func (b *Broadcaster) Send(ctx context.Context, body interface{}, audience models.Audience) (int, error) {
	return b.Broadcast(ctx, models.Message{
		Kind:     models.KindEvent,
		Audience: audience,
		Body:     body,
	})
}
