package permissions

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

var ErrPermissionNotFound = apperrors.NotFound("Permission not found")

type IPermissionsService interface {
	FindAll(ctx context.Context) ([]models.Permission, error)
	FindByID(ctx context.Context, id string) (*models.Permission, error)
	Create(ctx context.Context, name string) (*models.Permission, error)
	Update(ctx context.Context, id, name string) (*models.Permission, error)
	// Delete also removes the permission from every role holding it.
	Delete(ctx context.Context, id string) error
}

type permissionsService struct {
	perms repository.PermissionRepository
}

var _ IPermissionsService = (*permissionsService)(nil)

func NewPermissionsService(perms repository.PermissionRepository) IPermissionsService {
	return &permissionsService{perms: perms}
}

func (s *permissionsService) FindAll(ctx context.Context) ([]models.Permission, error) {
	return s.perms.List(ctx)
}

func (s *permissionsService) FindByID(ctx context.Context, id string) (*models.Permission, error) {
	p, err := s.perms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPermissionNotFound
	}
	return p, nil
}

func (s *permissionsService) Create(ctx context.Context, name string) (*models.Permission, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.InvalidInput("permission name must not be empty")
	}
	now := clock.Now(ctx)
	p := &models.Permission{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.perms.Create(ctx, p); err != nil {
		return nil, err
	}
	zap.L().Info("permission_created", zap.String("permission_id", p.ID), zap.String("name", name))
	return p, nil
}

func (s *permissionsService) Update(ctx context.Context, id, name string) (*models.Permission, error) {
	p, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = strings.TrimSpace(name)
	if p.Name == "" {
		return nil, apperrors.InvalidInput("permission name must not be empty")
	}
	p.UpdatedAt = clock.Now(ctx)
	if err := s.perms.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *permissionsService) Delete(ctx context.Context, id string) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.perms.Delete(ctx, id); err != nil {
		return err
	}
	zap.L().Info("permission_deleted", zap.String("permission_id", id))
	return nil
}
