package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piresc/intranet-notify/internal/pkg/models"
)

var userColumns = []string{"id", "name", "email", "role", "branch", "employment_type"}

func setupPostgresUserRepoTest(t *testing.T) (*PostgresUserRepo, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })

	return NewPostgresUserRepo(sqlxDB), mock
}

func TestPostgresUserRepo_FindUserByID(t *testing.T) {
	testCases := []struct {
		name       string
		mockSetup  func(mock sqlmock.Sqlmock)
		assertFunc func(t *testing.T, user *models.User, err error)
	}{
		{
			name: "Success - JSON list of employment types",
			mockSetup: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(userColumns).
					AddRow("u-1", "Budi", "budi@intranet.local", "staff", "SBY", []byte(`["contract","intern"]`))
				mock.ExpectQuery("^SELECT (.+) FROM users WHERE id").
					WithArgs("u-1").
					WillReturnRows(rows)
			},
			assertFunc: func(t *testing.T, user *models.User, err error) {
				require.NoError(t, err)
				assert.Equal(t, "u-1", user.ID)
				assert.Equal(t, models.RoleStaff, user.Role)
				assert.Equal(t, "SBY", user.Branch)
				assert.Equal(t, models.EmploymentTypes{"contract", "intern"}, user.EmploymentType)
			},
		},
		{
			name: "Success - single employment type and null branch",
			mockSetup: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(userColumns).
					AddRow("u-1", "Budi", "budi@intranet.local", "admin", "", `"permanent"`)
				mock.ExpectQuery("^SELECT (.+) FROM users WHERE id").
					WithArgs("u-1").
					WillReturnRows(rows)
			},
			assertFunc: func(t *testing.T, user *models.User, err error) {
				require.NoError(t, err)
				assert.Equal(t, models.RoleAdmin, user.Role)
				assert.Equal(t, models.EmploymentTypes{"permanent"}, user.EmploymentType)
			},
		},
		{
			name: "Not found",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("^SELECT (.+) FROM users WHERE id").
					WithArgs("u-1").
					WillReturnError(sql.ErrNoRows)
			},
			assertFunc: func(t *testing.T, user *models.User, err error) {
				assert.Nil(t, user)
				assert.ErrorIs(t, err, models.ErrUserNotFound)
			},
		},
		{
			name: "Database error",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("^SELECT (.+) FROM users WHERE id").
					WithArgs("u-1").
					WillReturnError(errors.New("connection reset"))
			},
			assertFunc: func(t *testing.T, user *models.User, err error) {
				assert.Nil(t, user)
				require.Error(t, err)
				assert.NotErrorIs(t, err, models.ErrUserNotFound)
				assert.Contains(t, err.Error(), "connection reset")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			repo, mock := setupPostgresUserRepoTest(t)
			tc.mockSetup(mock)

			// Act
			user, err := repo.FindUserByID(context.Background(), "u-1")

			// Assert
			tc.assertFunc(t, user, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresUserRepo_Ping(t *testing.T) {
	repo, mock := setupPostgresUserRepoTest(t)
	mock.ExpectPing()

	assert.NoError(t, repo.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
