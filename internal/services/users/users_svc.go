package users

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"auctionhouse/internal/apperrors"
	"auctionhouse/internal/clock"
	"auctionhouse/internal/models"
	"auctionhouse/internal/repository"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var ErrUserNotFound = apperrors.NotFound("User not found")

// Patch holds the fields to change. An empty RoleID removes the role.
type Patch struct {
	Email     *string
	FirstName *string
	LastName  *string
	Avatar    *string
	RoleID    *string
}

type IUsersService interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	Paginate(ctx context.Context, page, take int) (*models.Page[models.User], error)
	Update(ctx context.Context, id string, patch Patch) (*models.User, error)
}

type usersService struct {
	users repository.UserRepository
	roles repository.RoleRepository
}

var _ IUsersService = (*usersService)(nil)

func NewUsersService(users repository.UserRepository, roles repository.RoleRepository) IUsersService {
	return &usersService{users: users, roles: roles}
}

func (s *usersService) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *usersService) Paginate(ctx context.Context, page, take int) (*models.Page[models.User], error) {
	if page < 1 {
		page = 1
	}
	if take < 1 {
		take = DefaultPageSize
	}
	take = min(take, MaxPageSize)

	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	data, err := s.users.List(ctx, take, (page-1)*take)
	if err != nil {
		return nil, err
	}
	return &models.Page[models.User]{
		Data: data,
		Meta: models.NewPageMeta(total, page, take),
	}, nil
}

func (s *usersService) Update(ctx context.Context, id string, patch Patch) (*models.User, error) {
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if email != u.Email {
			other, err := s.users.FindByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != u.ID {
				return nil, apperrors.Conflict("email already registered")
			}
			u.Email = email
		}
	}
	if patch.FirstName != nil {
		u.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		u.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Avatar != nil {
		u.Avatar = strings.TrimSpace(*patch.Avatar)
	}
	if patch.RoleID != nil {
		if err := s.assignRole(ctx, u, *patch.RoleID); err != nil {
			return nil, err
		}
	}
	u.UpdatedAt = clock.Now(ctx)

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	zap.L().Info("user_updated", zap.String("user_id", u.ID))
	return u, nil
}

func (s *usersService) assignRole(ctx context.Context, u *models.User, roleID string) error {
	if roleID == "" {
		u.RoleID, u.Role = nil, nil
		return nil
	}
	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return err
	}
	if role == nil {
		return apperrors.InvalidInput("role does not exist")
	}
	u.RoleID = &role.ID
	u.Role = &models.Role{ID: role.ID, Name: role.Name}
	return nil
}
