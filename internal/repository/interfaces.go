// Package repository persists the marketplace entities in Postgres.
// Finders return (nil, nil) when nothing matches.
package repository

import (
	"context"
	"time"

	"auctionhouse/internal/models"
)

type UserRepository interface {
	// FindByID loads the user with its role name, without permissions.
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	// Update writes the profile fields and the role assignment.
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string, at time.Time) error
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	Count(ctx context.Context) (int, error)
}

type RoleRepository interface {
	// FindByID loads the role together with its permissions.
	FindByID(ctx context.Context, id string) (*models.Role, error)
	FindByName(ctx context.Context, name string) (*models.Role, error)
	List(ctx context.Context) ([]models.Role, error)
	// Create and Update replace the permission set in the same transaction.
	Create(ctx context.Context, role *models.Role, permissionIDs []string) error
	Update(ctx context.Context, role *models.Role, permissionIDs []string) error
	Delete(ctx context.Context, id string) error
	CountUsers(ctx context.Context, roleID string) (int, error)
}

type PermissionRepository interface {
	FindByID(ctx context.Context, id string) (*models.Permission, error)
	FindByName(ctx context.Context, name string) (*models.Permission, error)
	List(ctx context.Context) ([]models.Permission, error)
	Create(ctx context.Context, p *models.Permission) error
	Update(ctx context.Context, p *models.Permission) error
	Delete(ctx context.Context, id string) error
}

type AuctionRepository interface {
	// FindByID loads the auction with its bids, newest first.
	FindByID(ctx context.Context, id string) (*models.Auction, error)
	Create(ctx context.Context, a *models.Auction) error
	Update(ctx context.Context, a *models.Auction) error
	// ListActive returns auctions ending after now, soonest first.
	ListActive(ctx context.Context, now time.Time) ([]models.Auction, error)
	// ListByUser returns the user's auctions, most recently created first.
	ListByUser(ctx context.Context, userID string) ([]models.Auction, error)
}

type BidRepository interface {
	Create(ctx context.Context, b *models.Bid) error
}
