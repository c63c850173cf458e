package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/piresc/intranet-notify/internal/pkg/models"
)

// PostgresUserRepo reads users from a relational mirror of the directory
type PostgresUserRepo struct {
	db *sqlx.DB
}

// NewPostgresUserRepo creates a new Postgres user repository
func NewPostgresUserRepo(db *sqlx.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindUserByID retrieves a user by id
func (r *PostgresUserRepo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, name, email, role, branch, employment_type
		FROM users
		WHERE id = $1
	`

	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// Ping checks the database is reachable
func (r *PostgresUserRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
