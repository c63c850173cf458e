package usecase

import (
	"github.com/piresc/intranet-notify/internal/pkg/models"
	"github.com/piresc/intranet-notify/internal/pkg/session"
	"github.com/piresc/intranet-notify/services/notify"
)

type NotifyUC struct {
	userRepo  notify.UserRepo
	extractor *session.Extractor
	hub       notify.Hub
	registry  notify.ConnectionRegistry
	cfg       *models.Config
}

// NewNotifyUC creates a new notification usecase instance
func NewNotifyUC(
	userRepo notify.UserRepo,
	extractor *session.Extractor,
	hub notify.Hub,
	registry notify.ConnectionRegistry,
	cfg *models.Config,
) *NotifyUC {
	return &NotifyUC{
		userRepo:  userRepo,
		extractor: extractor,
		hub:       hub,
		registry:  registry,
		cfg:       cfg,
	}
}
