package repository

import (
	"context"
	"errors"
	"testing"

	"agora/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock
}

// The sqlite harness used elsewhere reports unique violations in its own
// dialect. These cases pin the mapping for the wording PostgreSQL emits.
func TestUserRepositoryPostgresConflictMapping(t *testing.T) {
	tests := []struct {
		name     string
		dbError  error
		expected models.Outcome
	}{
		{
			name: "nickname constraint",
			dbError: errors.New(
				`ERROR: duplicate key value violates unique constraint "idx_users_nickname" (SQLSTATE 23505)`),
			expected: models.OutcomeNicknameDuplicated,
		},
		{
			name: "email constraint",
			dbError: errors.New(
				`ERROR: duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`),
			expected: models.OutcomeEmailConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewUserRepository(db)

			mock.ExpectBegin()
			mock.ExpectQuery(`INSERT INTO "users"`).WillReturnError(tt.dbError)
			mock.ExpectRollback()

			err := repo.Create(context.Background(), &models.User{
				Email:    "dup@example.com",
				Password: "hash",
				Nickname: "dup",
			})

			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.expected, appErr.Outcome)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepositoryPostgresPlainErrorIsInternal(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).WillReturnError(errors.New("connection reset by peer"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.User{Email: "a@b.co", Password: "x", Nickname: "abc"})

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.OutcomeInternalError, appErr.Outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}
