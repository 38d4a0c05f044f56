package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/msomdec/eventsphere/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectUser = `SELECT id, name, email, password_hash, photo_url, created_at`

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (id, name, email, password_hash, photo_url, created_at)`)).
		WithArgs(sqlmock.AnyArg(), "Alice", "a@x.io", "hash", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	user := &domain.User{Name: "Alice", Email: "a@x.io", PasswordHash: "hash"}
	require.NoError(t, db.Users().Create(context.Background(), user))
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := db.Users().Create(context.Background(), &domain.User{Name: "A", Email: "a@x.io", PasswordHash: "h"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestUserRepository_Create_DBError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(errors.New("db down"))

	err := db.Users().Create(context.Background(), &domain.User{Name: "A", Email: "a@x.io", PasswordHash: "h"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert user: db down")
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "photo_url", "created_at"}).
		AddRow("u-1", "Alice", "a@x.io", "hash", "http://img", created)
	mock.ExpectQuery(regexp.QuoteMeta(selectUser) + `.*WHERE email = \$1`).
		WithArgs("a@x.io").
		WillReturnRows(rows)

	got, err := db.Users().GetByEmail(context.Background(), "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, created, got.CreatedAt)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectUser) + `.*WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := db.Users().GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
