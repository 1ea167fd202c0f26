package roles

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"auctionhouse/internal/apperrors"
	"auctionhouse/internal/clock"
	"auctionhouse/internal/models"
	"auctionhouse/internal/repository"
)

var (
	ErrRoleNotFound = apperrors.NotFound("Role not found")
	ErrRoleInUse    = apperrors.Conflict("Role is assigned to users")
)

type IRolesService interface {
	FindAll(ctx context.Context) ([]models.Role, error)
	FindByID(ctx context.Context, id string) (*models.Role, error)
	Create(ctx context.Context, name string, permissionIDs []string) (*models.Role, error)
	// Update renames the role; a non-nil permissionIDs replaces its permissions.
	Update(ctx context.Context, id string, name *string, permissionIDs []string) (*models.Role, error)
	Delete(ctx context.Context, id string) error
}

type rolesService struct {
	roles repository.RoleRepository
}

var _ IRolesService = (*rolesService)(nil)

func NewRolesService(roles repository.RoleRepository) IRolesService {
	return &rolesService{roles: roles}
}

func (s *rolesService) FindAll(ctx context.Context) ([]models.Role, error) {
	return s.roles.List(ctx)
}

func (s *rolesService) FindByID(ctx context.Context, id string) (*models.Role, error) {
	r, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrRoleNotFound
	}
	return r, nil
}

func (s *rolesService) Create(ctx context.Context, name string, permissionIDs []string) (*models.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.InvalidInput("role name must not be empty")
	}
	now := clock.Now(ctx)
	role := &models.Role{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.roles.Create(ctx, role, dedupe(permissionIDs)); err != nil {
		return nil, err
	}
	zap.L().Info("role_created", zap.String("role_id", role.ID), zap.String("name", name))
	return s.FindByID(ctx, role.ID)
}

func (s *rolesService) Update(ctx context.Context, id string, name *string, permissionIDs []string) (*models.Role, error) {
	role, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		role.Name = strings.TrimSpace(*name)
		if role.Name == "" {
			return nil, apperrors.InvalidInput("role name must not be empty")
		}
	}
	role.UpdatedAt = clock.Now(ctx)
	if err := s.roles.Update(ctx, role, dedupe(permissionIDs)); err != nil {
		return nil, err
	}
	zap.L().Info("role_updated", zap.String("role_id", id))
	return s.FindByID(ctx, id)
}

func (s *rolesService) Delete(ctx context.Context, id string) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	n, err := s.roles.CountUsers(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrRoleInUse
	}
	if err := s.roles.Delete(ctx, id); err != nil {
		return err
	}
	zap.L().Info("role_deleted", zap.String("role_id", id))
	return nil
}

// dedupe keeps nil as nil so that "not given" survives.
func dedupe(ids []string) []string {
	if ids == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
