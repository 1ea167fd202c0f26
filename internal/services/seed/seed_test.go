package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctionhouse/internal/apperrors"
	"auctionhouse/internal/models"
	"auctionhouse/internal/repository/repotest"
)

func options(store *repotest.Store) Options {
	return Options{
		Permissions:     store.Permissions(),
		Roles:           store.Roles(),
		Users:           store.Users(),
		DefaultRoleName: "user",
	}
}

func TestRunCreatesBaseline(t *testing.T) {
	store := repotest.NewStore()
	ctx := context.Background()

	res, err := Run(ctx, options(store))
	require.NoError(t, err)
	assert.Equal(t, 10, res.Permissions)
	assert.Equal(t, 2, res.Roles)

	admin, err := store.Roles().FindByName(ctx, AdminRoleName)
	require.NoError(t, err)
	assert.Len(t, admin.Permissions, 10)

	user, err := store.Roles().FindByName(ctx, "user")
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{"view_auction", "edit_auction", "view_bid", "edit_bid"},
		user.PermissionNames())
}

func TestRunIsIdempotent(t *testing.T) {
	store := repotest.NewStore()
	ctx := context.Background()

	_, err := Run(ctx, options(store))
	require.NoError(t, err)
	res, err := Run(ctx, options(store))
	require.NoError(t, err)

	assert.Equal(t, 0, res.Permissions)
	assert.Equal(t, 0, res.Roles)
	perms, err := store.Permissions().List(ctx)
	require.NoError(t, err)
	assert.Len(t, perms, 10)
}

func TestRunKeepsOperatorGrants(t *testing.T) {
	store := repotest.NewStore()
	store.AddPermission("custom", "view_user")
	store.AddRole("r-user", "user", "custom")
	ctx := context.Background()

	_, err := Run(ctx, options(store))
	require.NoError(t, err)

	user, err := store.Roles().FindByID(ctx, "r-user")
	require.NoError(t, err)
	assert.Contains(t, user.PermissionNames(), "view_user")
	assert.Contains(t, user.PermissionNames(), "edit_bid")
}

func TestRunGrantsAdmin(t *testing.T) {
	store := repotest.NewStore()
	store.AddUser(models.User{ID: "u1", Email: "boss@example.com"})
	ctx := context.Background()

	opts := options(store)
	opts.AdminEmail = "boss@example.com"
	res, err := Run(ctx, opts)
	require.NoError(t, err)
	assert.True(t, res.AdminGranted)

	u, err := store.Users().FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, AdminRoleName, u.Role.Name)

	opts.AdminEmail = "nobody@example.com"
	_, err = Run(ctx, opts)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
