package notify

import (
	"context"

	"github.com/piresc/intranet-notify/internal/pkg/models"
)

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks github.com/piresc/intranet-notify/services/notify UserRepo,UserCache

// UserRepo is the user store the connection identities are resolved against
type UserRepo interface {
	// FindUserByID returns models.ErrUserNotFound when no user has id
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	Ping(ctx context.Context) error
}

// UserCache holds recently resolved users under the id they were requested with.
// GetUser returns nil, nil on a miss.
type UserCache interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	SetUser(ctx context.Context, id string, user *models.User) error
	DeleteUser(ctx context.Context, id string) error
}
