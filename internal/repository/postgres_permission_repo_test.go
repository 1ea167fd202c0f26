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

func TestPostgresPermissionRepo_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM permissions ORDER BY name")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
			AddRow("p1", "edit_auction", now, now).
			AddRow("p2", "view_auction", now, now))

	perms, err := NewPostgresPermissionRepo(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, perms, 2)
	assert.Equal(t, "view_auction", perms[1].Name)
}

func TestPostgresPermissionRepo_FindByNameNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM permissions WHERE name = $1")).
		WithArgs("edit_nothing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}))

	p, err := NewPostgresPermissionRepo(db).FindByName(context.Background(), "edit_nothing")
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestPostgresPermissionRepo_CreateDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO permissions")).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

	err = NewPostgresPermissionRepo(db).Create(context.Background(), &models.Permission{ID: "p1", Name: "view_auction"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestPostgresPermissionRepo_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM permissions WHERE id = $1")).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewPostgresPermissionRepo(db).Delete(context.Background(), "p1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPermissionRepo_FindByIDMalformedID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
		WithArgs("x").
		WillReturnError(&pgconn.PgError{Code: pgInvalidText})

	p, err := NewPostgresPermissionRepo(db).FindByID(context.Background(), "x")
	assert.NoError(t, err)
	assert.Nil(t, p)
}
