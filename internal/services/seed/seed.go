// Package seed installs the baseline permissions and roles. Running it again
// is harmless.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"auctionhouse/internal/apperrors"
	"auctionhouse/internal/clock"
	"auctionhouse/internal/models"
	"auctionhouse/internal/repository"
	"auctionhouse/internal/services/authz"
)

const AdminRoleName = "admin"

type Options struct {
	Permissions repository.PermissionRepository
	Roles       repository.RoleRepository
	Users       repository.UserRepository

	DefaultRoleName string
	// AdminEmail, when set, names an existing user that gets the admin role.
	AdminEmail string
}

type Result struct {
	Permissions  int
	Roles        int
	AdminGranted bool
}

// Run creates view_/edit_ permissions for every resource, an admin role
// holding all of them and a default role that may browse auctions and bid.
func Run(ctx context.Context, opts Options) (*Result, error) {
	now := clock.Now(ctx)
	res := &Result{}

	byName := make(map[string]string)
	for _, r := range authz.Resources {
		for _, name := range []string{r.ViewPermission(), r.EditPermission()} {
			p, created, err := ensurePermission(ctx, opts.Permissions, name, now)
			if err != nil {
				return nil, err
			}
			if created {
				res.Permissions++
			}
			byName[name] = p.ID
		}
	}

	all := make([]string, 0, len(byName))
	for _, r := range authz.Resources {
		all = append(all, byName[r.ViewPermission()], byName[r.EditPermission()])
	}
	admin, created, err := ensureRole(ctx, opts.Roles, AdminRoleName, all, now)
	if err != nil {
		return nil, err
	}
	if created {
		res.Roles++
	}

	if opts.DefaultRoleName != "" && opts.DefaultRoleName != AdminRoleName {
		base := []string{
			byName[authz.ResourceAuction.ViewPermission()],
			byName[authz.ResourceAuction.EditPermission()],
			byName[authz.ResourceBid.ViewPermission()],
			byName[authz.ResourceBid.EditPermission()],
		}
		_, created, err := ensureRole(ctx, opts.Roles, opts.DefaultRoleName, base, now)
		if err != nil {
			return nil, err
		}
		if created {
			res.Roles++
		}
	}

	if opts.AdminEmail != "" {
		granted, err := grantAdmin(ctx, opts.Users, admin, opts.AdminEmail, now)
		if err != nil {
			return nil, err
		}
		res.AdminGranted = granted
	}

	zap.L().Info("seed_completed",
		zap.Int("permissions_created", res.Permissions),
		zap.Int("roles_created", res.Roles),
		zap.Bool("admin_granted", res.AdminGranted),
	)
	return res, nil
}

func ensurePermission(ctx context.Context, repo repository.PermissionRepository, name string, now time.Time) (*models.Permission, bool, error) {
	p, err := repo.FindByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if p != nil {
		return p, false, nil
	}
	p = &models.Permission{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := repo.Create(ctx, p); err != nil {
		return nil, false, fmt.Errorf("seed permission %s: %w", name, err)
	}
	return p, true, nil
}

// ensureRole creates the role or tops up its permissions; grants made by an
// operator are kept.
func ensureRole(ctx context.Context, repo repository.RoleRepository, name string, permissionIDs []string, now time.Time) (*models.Role, bool, error) {
	role, err := repo.FindByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if role == nil {
		role = &models.Role{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}
		if err := repo.Create(ctx, role, permissionIDs); err != nil {
			return nil, false, fmt.Errorf("seed role %s: %w", name, err)
		}
		return role, true, nil
	}

	have := make(map[string]struct{}, len(role.Permissions))
	merged := make([]string, 0, len(role.Permissions)+len(permissionIDs))
	for _, p := range role.Permissions {
		have[p.ID] = struct{}{}
		merged = append(merged, p.ID)
	}
	missing := false
	for _, id := range permissionIDs {
		if _, ok := have[id]; !ok {
			merged = append(merged, id)
			missing = true
		}
	}
	if missing {
		role.UpdatedAt = now
		if err := repo.Update(ctx, role, merged); err != nil {
			return nil, false, fmt.Errorf("seed role %s: %w", name, err)
		}
	}
	return role, false, nil
}

func grantAdmin(ctx context.Context, users repository.UserRepository, admin *models.Role, email string, now time.Time) (bool, error) {
	u, err := users.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if u == nil {
		return false, apperrors.NotFound("no user registered with " + email)
	}
	if u.RoleID != nil && *u.RoleID == admin.ID {
		return false, nil
	}
	u.RoleID = &admin.ID
	u.UpdatedAt = now
	if err := users.Update(ctx, u); err != nil {
		return false, err
	}
	return true, nil
}
