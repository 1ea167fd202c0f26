package roles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctionhouse/internal/apperrors"
	"auctionhouse/internal/models"
	"auctionhouse/internal/repository/repotest"
)

func newStore() *repotest.Store {
	store := repotest.NewStore()
	store.AddPermission("p-view", "view_auction")
	store.AddPermission("p-edit", "edit_auction")
	return store
}

func TestCreate(t *testing.T) {
	store := newStore()
	svc := NewRolesService(store.Roles())

	role, err := svc.Create(context.Background(), " seller ", []string{"p-edit", "p-view", "p-edit"})
	require.NoError(t, err)
	assert.Equal(t, "seller", role.Name)
	assert.Equal(t, []string{"edit_auction", "view_auction"}, role.PermissionNames())

	_, err = svc.Create(context.Background(), "seller", nil)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = svc.Create(context.Background(), "broken", []string{"p-missing"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.Create(context.Background(), "  ", nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestUpdate(t *testing.T) {
	store := newStore()
	store.AddRole("r1", "seller", "p-view", "p-edit")
	svc := NewRolesService(store.Roles())
	ctx := context.Background()

	name := "vendor"
	role, err := svc.Update(ctx, "r1", &name, nil)
	require.NoError(t, err)
	assert.Equal(t, "vendor", role.Name)
	assert.Len(t, role.Permissions, 2)

	role, err = svc.Update(ctx, "r1", nil, []string{"p-view"})
	require.NoError(t, err)
	assert.Equal(t, []string{"view_auction"}, role.PermissionNames())

	role, err = svc.Update(ctx, "r1", nil, []string{})
	require.NoError(t, err)
	assert.Empty(t, role.Permissions)

	_, err = svc.Update(ctx, "missing", &name, nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDelete(t *testing.T) {
	store := newStore()
	store.AddRole("r-used", "user")
	store.AddRole("r-free", "spare")
	roleID := "r-used"
	store.AddUser(models.User{ID: "u1", RoleID: &roleID})
	svc := NewRolesService(store.Roles())
	ctx := context.Background()

	err := svc.Delete(ctx, "r-used")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	require.NoError(t, svc.Delete(ctx, "r-free"))
	_, err = svc.FindByID(ctx, "r-free")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, "r-free"), apperrors.ErrNotFound)
}

func TestFindAll(t *testing.T) {
	store := newStore()
	store.AddRole("r2", "user", "p-view")
	store.AddRole("r1", "admin", "p-view", "p-edit")
	svc := NewRolesService(store.Roles())

	list, err := svc.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "admin", list[0].Name)
	assert.Len(t, list[0].Permissions, 2)
}
