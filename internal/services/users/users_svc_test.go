package users

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctionhouse/internal/apperrors"
	"auctionhouse/internal/models"
	"auctionhouse/internal/repository/repotest"
)

func ptr[T any](v T) *T { return &v }

func seedUsers(store *repotest.Store, n int) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		store.AddUser(models.User{
			ID:        fmt.Sprintf("u%02d", i),
			Email:     fmt.Sprintf("user%02d@example.com", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
}

func TestPaginate(t *testing.T) {
	store := repotest.NewStore()
	seedUsers(store, 25)
	svc := NewUsersService(store.Users(), store.Roles())
	ctx := context.Background()

	page, err := svc.Paginate(ctx, 3, 10)
	require.NoError(t, err)
	assert.Len(t, page.Data, 5)
	assert.Equal(t, "u20", page.Data[0].ID)
	assert.Equal(t, models.PageMeta{Total: 25, Page: 3, LastPage: 3}, page.Meta)

	page, err = svc.Paginate(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, page.Data, DefaultPageSize)
	assert.Equal(t, 1, page.Meta.Page)

	page, err = svc.Paginate(ctx, 9, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Data)
}

func TestFindByID(t *testing.T) {
	store := repotest.NewStore()
	store.AddRole("r1", "admin")
	store.AddUser(models.User{ID: "u1", Email: "a@example.com", RoleID: ptr("r1")})
	svc := NewUsersService(store.Users(), store.Roles())

	u, err := svc.FindByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Role.Name)

	_, err = svc.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdate(t *testing.T) {
	store := repotest.NewStore()
	store.AddRole("r1", "admin")
	store.AddUser(models.User{ID: "u1", Email: "a@example.com", FirstName: "Ann"})
	store.AddUser(models.User{ID: "u2", Email: "b@example.com"})
	svc := NewUsersService(store.Users(), store.Roles())
	ctx := context.Background()

	u, err := svc.Update(ctx, "u1", Patch{LastName: ptr(" Lee "), RoleID: ptr("r1")})
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.FirstName)
	assert.Equal(t, "Lee", u.LastName)
	assert.Equal(t, "r1", *u.RoleID)

	_, err = svc.Update(ctx, "u1", Patch{Email: ptr("B@example.com")})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = svc.Update(ctx, "u1", Patch{RoleID: ptr("nope")})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	u, err = svc.Update(ctx, "u1", Patch{Email: ptr("a@example.com"), RoleID: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, u.RoleID)

	_, err = svc.Update(ctx, "missing", Patch{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
