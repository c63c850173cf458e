package usecase

import (
	"context"
	"errors"

	"github.com/piresc/intranet-notify/internal/pkg/logger"
	"github.com/piresc/intranet-notify/internal/pkg/models"
)

// Authenticate resolves a session cookie into the identity of a connection.
// Every failure is a *models.AuthError.
func (uc *NotifyUC) Authenticate(ctx context.Context, cookie string) (*models.Identity, error) {
	cred, err := uc.extractor.Extract(cookie)
	if err != nil {
		return nil, err
	}
	if !cred.Verified {
		logger.WarnCtx(ctx, "unverified session credential accepted",
			logger.String("user_id", cred.UserID))
	}

	user, err := uc.userRepo.FindUserByID(ctx, cred.UserID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.NewAuthError(models.AuthUnknownUser, err)
		}
		logger.ErrorCtx(ctx, "User store lookup failed",
			logger.String("user_id", cred.UserID),
			logger.Err(err))
		return nil, models.NewAuthError(models.AuthStoreUnavailable, err)
	}
	if user.ID == "" {
		user.ID = cred.UserID
	}

	identity, err := models.NewIdentity(user)
	if err != nil {
		return nil, models.NewAuthError(models.AuthUnknownUser, err)
	}

	logger.Debug("Session authenticated",
		logger.String("user_id", identity.UserID),
		logger.String("profile", cred.Profile),
		logger.Bool("verified", cred.Verified))
	return identity, nil
}
