package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/piresc/intranet-notify/internal/pkg/constants"
	"github.com/piresc/intranet-notify/internal/pkg/logger"
	"github.com/piresc/intranet-notify/internal/pkg/models"
	natspkg "github.com/piresc/intranet-notify/internal/pkg/nats"
	nrpkg "github.com/piresc/intranet-notify/internal/pkg/newrelic"
	"github.com/piresc/intranet-notify/services/notify"
)

// NatsHandler feeds publish requests received over NATS into the broadcaster
type NatsHandler struct {
	notifyUC   notify.NotifyUC
	natsClient *natspkg.Client
	subs       []*nats.Subscription
	nrApp      *newrelic.Application
}

// NewNatsHandler creates a new notify NATS handler
func NewNatsHandler(
	notifyUC notify.NotifyUC,
	client *natspkg.Client,
	nrApp *newrelic.Application,
) *NatsHandler {
	return &NatsHandler{
		notifyUC:   notifyUC,
		natsClient: client,
		subs:       make([]*nats.Subscription, 0),
		nrApp:      nrApp,
	}
}

// InitNATSConsumers subscribes to the publish subjects.
// Every instance subscribes without a queue group since each one owns its connections.
func (h *NatsHandler) InitNATSConsumers() error {
	handlers := map[string]func(context.Context, []byte) (int, error){
		constants.SubjectNotifyBroadcast:    h.handleBroadcast,
		constants.SubjectNotifyResource:     h.handleResourceEvent,
		constants.SubjectNotifyNotification: h.handleNotification,
	}

	for subject, handle := range handlers {
		sub, err := h.natsClient.Subscribe(subject, h.wrap(subject, handle))
		if err != nil {
			h.Close()
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
		h.subs = append(h.subs, sub)
		logger.Info("Subscribed to NATS subject", logger.String("subject", subject))
	}
	return nil
}

// Close unsubscribes from every subject
func (h *NatsHandler) Close() {
	for _, sub := range h.subs {
		if err := sub.Unsubscribe(); err != nil {
			logger.Warn("Failed to unsubscribe", logger.String("subject", sub.Subject), logger.Err(err))
		}
	}
	h.subs = h.subs[:0]
}

func (h *NatsHandler) wrap(subject string, handle func(context.Context, []byte) (int, error)) nats.MsgHandler {
	return func(msg *nats.Msg) {
		txn, ctx := nrpkg.StartMessageTransaction(h.nrApp, "NATS.Notify."+subject, msg.Subject, len(msg.Data))
		defer txn.End()

		delivered, err := handle(ctx, msg.Data)
		if err != nil {
			nrpkg.NoticeTransactionError(txn, err)
			logger.ErrorCtx(ctx, "Failed to handle NATS message",
				logger.String("subject", msg.Subject),
				logger.Err(err))
		}

		if msg.Reply == "" {
			return
		}
		reply, _ := json.Marshal(replyFor(delivered, err))
		if rerr := msg.Respond(reply); rerr != nil {
			logger.WarnCtx(ctx, "Failed to reply to NATS request",
				logger.String("subject", msg.Subject),
				logger.Err(rerr))
		}
	}
}

type natsReply struct {
	Delivered int    `json:"delivered"`
	Error     string `json:"error,omitempty"`
}

func replyFor(delivered int, err error) natsReply {
	if err != nil {
		return natsReply{Error: err.Error()}
	}
	return natsReply{Delivered: delivered}
}

func (h *NatsHandler) handleBroadcast(ctx context.Context, data []byte) (int, error) {
	var req models.BroadcastRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return 0, fmt.Errorf("failed to unmarshal broadcast request: %w", err)
	}
	return h.notifyUC.Broadcast(ctx, &req)
}

func (h *NatsHandler) handleResourceEvent(ctx context.Context, data []byte) (int, error) {
	var req models.ResourceEventRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return 0, fmt.Errorf("failed to unmarshal resource event: %w", err)
	}
	nrpkg.AddTransactionAttribute(nrpkg.FromContext(ctx), "resource.event", req.Event)
	return h.notifyUC.BroadcastResourceEvent(ctx, &req)
}

func (h *NatsHandler) handleNotification(ctx context.Context, data []byte) (int, error) {
	var req models.ActionNotificationRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return 0, fmt.Errorf("failed to unmarshal notification request: %w", err)
	}
	return h.notifyUC.NotifyAction(ctx, &req)
}
