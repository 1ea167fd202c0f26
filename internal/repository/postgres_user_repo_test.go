package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctionhouse/internal/apperrors"
	"auctionhouse/internal/models"
)

var userColumns = []string{
	"id", "email", "password_hash", "first_name", "last_name", "avatar",
	"role_id", "name", "created_at", "updated_at",
}

func TestPostgresUserRepo_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN roles r ON r.id = u.role_id WHERE u.id = $1")).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("user-1", "ann@example.com", "hash", "Ann", "Lee", "", "role-1", "user", now, now))

	repo := NewPostgresUserRepo(db)
	u, err := repo.FindByID(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, u)

	assert.Equal(t, "ann@example.com", u.Email)
	require.NotNil(t, u.RoleID)
	assert.Equal(t, "role-1", *u.RoleID)
	assert.Equal(t, "user", u.Role.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepo_FindByIDWithoutRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE u.id = $1")).
		WithArgs("user-2").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("user-2", "bob@example.com", "hash", "", "", "", nil, nil, now, now))

	u, err := NewPostgresUserRepo(db).FindByID(context.Background(), "user-2")
	require.NoError(t, err)
	assert.Nil(t, u.RoleID)
	assert.Nil(t, u.Role)
}

func TestPostgresUserRepo_FindByEmailNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE lower(u.email) = lower($1)")).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	u, err := NewPostgresUserRepo(db).FindByEmail(context.Background(), "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestPostgresUserRepo_CreateDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

	now := time.Now()
	err = NewPostgresUserRepo(db).Create(context.Background(), &models.User{
		ID: "user-1", Email: "ann@example.com", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now,
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestPostgresUserRepo_CreatePassesNullRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("user-1", "ann@example.com", "hash", "", "", "", nil, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	var noRole *string
	err = NewPostgresUserRepo(db).Create(context.Background(), &models.User{
		ID: "user-1", Email: "ann@example.com", PasswordHash: "hash", RoleID: noRole, CreatedAt: now, UpdatedAt: now,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepo_ListAndCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $1 OFFSET $2")).
		WithArgs(10, 10).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("u1", "a@example.com", "h", "", "", "", nil, nil, now, now).
			AddRow("u2", "b@example.com", "h", "", "", "", "r1", "admin", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM users")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	repo := NewPostgresUserRepo(db)
	users, err := repo.List(context.Background(), 10, 10)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "admin", users[1].Role.Name)

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserRepo_FindByIDMalformedID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE u.id = $1")).
		WithArgs("x").
		WillReturnError(&pgconn.PgError{Code: pgInvalidText})

	u, err := NewPostgresUserRepo(db).FindByID(context.Background(), "x")
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestPostgresUserRepo_UpdateMalformedRoleID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	roleID := "bogus"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
		WillReturnError(&pgconn.PgError{Code: pgInvalidText})

	err = NewPostgresUserRepo(db).Update(context.Background(),
		&models.User{ID: "u1", Email: "a@example.com", RoleID: &roleID, UpdatedAt: time.Now()})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
