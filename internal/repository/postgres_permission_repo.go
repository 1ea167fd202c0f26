package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"auctionhouse/internal/apperrors"
	"auctionhouse/internal/models"
)

const permissionSelect = `SELECT id, name, created_at, updated_at FROM permissions`

type PostgresPermissionRepo struct {
	db *sql.DB
}

func NewPostgresPermissionRepo(db *sql.DB) *PostgresPermissionRepo {
	return &PostgresPermissionRepo{db: db}
}

func (r *PostgresPermissionRepo) findOne(ctx context.Context, where string, arg any) (*models.Permission, error) {
	var p models.Permission
	err := r.db.QueryRowContext(ctx, permissionSelect+" WHERE "+where, arg).
		Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find permission: %w", err)
	}
	return &p, nil
}

func (r *PostgresPermissionRepo) FindByID(ctx context.Context, id string) (*models.Permission, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *PostgresPermissionRepo) FindByName(ctx context.Context, name string) (*models.Permission, error) {
	return r.findOne(ctx, "name = $1", name)
}

func (r *PostgresPermissionRepo) List(ctx context.Context) ([]models.Permission, error) {
	rows, err := r.db.QueryContext(ctx, permissionSelect+" ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer rows.Close()

	perms := make([]models.Permission, 0)
	for rows.Next() {
		var p models.Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

func (r *PostgresPermissionRepo) Create(ctx context.Context, p *models.Permission) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO permissions (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		p.ID, p.Name, p.CreatedAt, p.UpdatedAt,
	)
	if pgErrorCode(err) == pgUniqueViolation {
		return apperrors.Wrap(apperrors.ErrConflict, "permission name already exists", err)
	}
	if err != nil {
		return fmt.Errorf("insert permission: %w", err)
	}
	return nil
}

func (r *PostgresPermissionRepo) Update(ctx context.Context, p *models.Permission) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE permissions SET name = $2, updated_at = $3 WHERE id = $1`,
		p.ID, p.Name, p.UpdatedAt,
	)
	if pgErrorCode(err) == pgUniqueViolation {
		return apperrors.Wrap(apperrors.ErrConflict, "permission name already exists", err)
	}
	if err != nil {
		return fmt.Errorf("update permission: %w", err)
	}
	return nil
}

// Delete removes the permission; role assignments cascade.
func (r *PostgresPermissionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM permissions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}
	return nil
}

var _ PermissionRepository = (*PostgresPermissionRepo)(nil)
