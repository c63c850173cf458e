package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/piresc/intranet-notify/internal/pkg/models"
	"github.com/piresc/intranet-notify/services/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcast_ClassifiesPayload(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantKind models.Kind
	}{
		{name: "toast", payload: `{"type":"new_notification","data":{"title":"Hi"}}`, wantKind: models.KindNotification},
		{name: "resource event", payload: `{"type":"resource/pin/add","item":{"type":"doc","id":"1"}}`, wantKind: models.KindResource},
		{name: "ambient event", payload: `{"type":"refresh_counters"}`, wantKind: models.KindEvent},
		{name: "untyped value", payload: `[1,2,3]`, wantKind: models.KindEvent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			uc, deps := newTestUC(t)
			observeLogs(t)
			audience := models.Audience{Branch: "JKT", ExcludeUserID: "U9"}

			deps.hub.EXPECT().Broadcast(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, msg models.Message) (int, error) {
					assert.Equal(t, tt.wantKind, msg.Kind)
					assert.Equal(t, audience, msg.Audience)
					assert.JSONEq(t, tt.payload, string(msg.Body.(json.RawMessage)))
					return 3, nil
				})

			// Act
			n, err := uc.Broadcast(context.Background(), &models.BroadcastRequest{
				Payload:  json.RawMessage(tt.payload),
				Audience: audience,
			})

			// Assert
			require.NoError(t, err)
			assert.Equal(t, 3, n)
		})
	}
}

func TestBroadcast_InvalidPayload(t *testing.T) {
	tests := []struct {
		name string
		req  *models.BroadcastRequest
	}{
		{name: "nil request"},
		{name: "empty payload", req: &models.BroadcastRequest{}},
		{name: "not json", req: &models.BroadcastRequest{Payload: json.RawMessage(`{oops`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := newTestUC(t)

			n, err := uc.Broadcast(context.Background(), tt.req)

			assert.Zero(t, n)
			assert.ErrorIs(t, err, notify.ErrInvalidPayload)
		})
	}
}

func TestBroadcast_HubError(t *testing.T) {
	uc, deps := newTestUC(t)
	deps.hub.EXPECT().Broadcast(gomock.Any(), gomock.Any()).Return(0, errors.New("marshal failed"))

	n, err := uc.Broadcast(context.Background(), &models.BroadcastRequest{Payload: json.RawMessage(`{}`)})

	assert.Zero(t, n)
	assert.ErrorContains(t, err, "marshal failed")
}

func TestBroadcastResourceEvent(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		// Arrange
		uc, deps := newTestUC(t)
		observeLogs(t)
		deps.hub.EXPECT().BroadcastResourceEvent(gomock.Any(), "pin/add", "document", "D1", "U1").Return(2, nil)

		// Act
		n, err := uc.BroadcastResourceEvent(context.Background(), &models.ResourceEventRequest{
			Event:    "/pin/add",
			ItemType: "document",
			ItemID:   "D1",
			UserID:   "U1",
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	invalid := []struct {
		name string
		req  *models.ResourceEventRequest
	}{
		{name: "nil request"},
		{name: "missing event", req: &models.ResourceEventRequest{ItemType: "document", ItemID: "D1"}},
		{name: "missing item type", req: &models.ResourceEventRequest{Event: "pin/add", ItemID: "D1"}},
		{name: "missing item id", req: &models.ResourceEventRequest{Event: "pin/add", ItemType: "document"}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := newTestUC(t)

			n, err := uc.BroadcastResourceEvent(context.Background(), tt.req)

			assert.Zero(t, n)
			assert.ErrorIs(t, err, notify.ErrInvalidRequest)
		})
	}
}

func TestNotifyAction(t *testing.T) {
	t.Run("source user excluded by default", func(t *testing.T) {
		// Arrange
		uc, deps := newTestUC(t)
		observeLogs(t)
		deps.hub.EXPECT().Notify(gomock.Any(), gomock.Any(), models.Audience{Branch: "JKT", ExcludeUserID: "U1"}).
			DoAndReturn(func(_ context.Context, toast models.Toast, _ models.Audience) (int, error) {
				assert.Equal(t, models.TypeNotification, toast.Type)
				assert.Equal(t, "New Announcement", toast.Data.Title)
				assert.Equal(t, "success", toast.Data.Level)
				assert.Equal(t, "U1", toast.Data.SourceUserID)
				return 4, nil
			})

		// Act
		n, err := uc.NotifyAction(context.Background(), &models.ActionNotificationRequest{
			Action:       models.ActionCreate,
			Resource:     "announcement",
			ResourceName: "Town hall",
			SourceUserID: "U1",
			Audience:     models.Audience{Branch: "JKT"},
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	})

	t.Run("explicit exclusion kept", func(t *testing.T) {
		uc, deps := newTestUC(t)
		observeLogs(t)
		deps.hub.EXPECT().Notify(gomock.Any(), gomock.Any(), models.Audience{ExcludeUserID: "U7"}).Return(1, nil)

		n, err := uc.NotifyAction(context.Background(), &models.ActionNotificationRequest{
			Action:       models.ActionDelete,
			Resource:     "document",
			ResourceName: "Q3 report",
			SourceUserID: "U1",
			Audience:     models.Audience{ExcludeUserID: "U7"},
		})

		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("unknown action", func(t *testing.T) {
		uc, _ := newTestUC(t)

		_, err := uc.NotifyAction(context.Background(), &models.ActionNotificationRequest{
			Action:   "archive",
			Resource: "document",
		})

		assert.ErrorIs(t, err, notify.ErrInvalidRequest)
	})

	t.Run("missing resource", func(t *testing.T) {
		uc, _ := newTestUC(t)

		_, err := uc.NotifyAction(context.Background(), &models.ActionNotificationRequest{Action: models.ActionUpdate})

		assert.ErrorIs(t, err, notify.ErrInvalidRequest)
	})
}

func TestConnections(t *testing.T) {
	uc, deps := newTestUC(t)
	stats := models.ConnectionStats{Total: 3, ByBranch: map[string]int{"JKT": 2, "none": 1}}
	deps.registry.EXPECT().Stats().Return(stats)

	assert.Equal(t, stats, uc.Connections(context.Background()))
}
