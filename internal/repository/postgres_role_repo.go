package repository

import (
	"context"
	"database/sql"
	"fmt"

	"auctionhouse/internal/apperrors"
	"auctionhouse/internal/models"
)

const roleSelect = `
	SELECT r.id, r.name, r.created_at, r.updated_at,
	       p.id, p.name, p.created_at, p.updated_at
	  FROM roles r
	  LEFT JOIN role_permissions rp ON rp.role_id = r.id
	  LEFT JOIN permissions p ON p.id = rp.permission_id`

type PostgresRoleRepo struct {
	db *sql.DB
}

func NewPostgresRoleRepo(db *sql.DB) *PostgresRoleRepo {
	return &PostgresRoleRepo{db: db}
}

// scanRoles folds the joined rows into roles, keeping the order in which
// roles first appear.
func scanRoles(rows *sql.Rows) ([]models.Role, error) {
	roles := make([]models.Role, 0)
	index := make(map[string]int)
	for rows.Next() {
		var (
			role       models.Role
			permID     sql.NullString
			permName   sql.NullString
			permCreate sql.NullTime
			permUpdate sql.NullTime
		)
		if err := rows.Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt,
			&permID, &permName, &permCreate, &permUpdate); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		i, seen := index[role.ID]
		if !seen {
			role.Permissions = make([]models.Permission, 0)
			roles = append(roles, role)
			i = len(roles) - 1
			index[role.ID] = i
		}
		if permID.Valid {
			roles[i].Permissions = append(roles[i].Permissions, models.Permission{
				ID:        permID.String,
				Name:      permName.String,
				CreatedAt: permCreate.Time,
				UpdatedAt: permUpdate.Time,
			})
		}
	}
	return roles, rows.Err()
}

func (r *PostgresRoleRepo) query(ctx context.Context, tail string, args ...any) ([]models.Role, error) {
	rows, err := r.db.QueryContext(ctx, roleSelect+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()
	return scanRoles(rows)
}

func (r *PostgresRoleRepo) findOne(ctx context.Context, where string, arg any) (*models.Role, error) {
	roles, err := r.query(ctx, " WHERE "+where+" ORDER BY p.name", arg)
	if isMalformedID(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, nil
	}
	return &roles[0], nil
}

func (r *PostgresRoleRepo) FindByID(ctx context.Context, id string) (*models.Role, error) {
	return r.findOne(ctx, "r.id = $1", id)
}

func (r *PostgresRoleRepo) FindByName(ctx context.Context, name string) (*models.Role, error) {
	return r.findOne(ctx, "r.name = $1", name)
}

func (r *PostgresRoleRepo) List(ctx context.Context) ([]models.Role, error) {
	return r.query(ctx, " ORDER BY r.name, p.name")
}

func (r *PostgresRoleRepo) Create(ctx context.Context, role *models.Role, permissionIDs []string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO roles (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
			role.ID, role.Name, role.CreatedAt, role.UpdatedAt,
		)
		if pgErrorCode(err) == pgUniqueViolation {
			return apperrors.Wrap(apperrors.ErrConflict, "role name already exists", err)
		}
		if err != nil {
			return fmt.Errorf("insert role: %w", err)
		}
		return insertRolePermissions(ctx, tx, role.ID, permissionIDs)
	})
}

func (r *PostgresRoleRepo) Update(ctx context.Context, role *models.Role, permissionIDs []string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE roles SET name = $2, updated_at = $3 WHERE id = $1`,
			role.ID, role.Name, role.UpdatedAt,
		)
		if pgErrorCode(err) == pgUniqueViolation {
			return apperrors.Wrap(apperrors.ErrConflict, "role name already exists", err)
		}
		if err != nil {
			return fmt.Errorf("update role: %w", err)
		}
		if permissionIDs == nil {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, role.ID); err != nil {
			return fmt.Errorf("clear role permissions: %w", err)
		}
		return insertRolePermissions(ctx, tx, role.ID, permissionIDs)
	})
}

func insertRolePermissions(ctx context.Context, tx *sql.Tx, roleID string, permissionIDs []string) error {
	for _, pid := range permissionIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			roleID, pid,
		)
		if pgErrorCode(err) == pgForeignKeyViolation || isMalformedID(err) {
			return apperrors.Wrap(apperrors.ErrInvalidInput, "unknown permission "+pid, err)
		}
		if err != nil {
			return fmt.Errorf("insert role permission: %w", err)
		}
	}
	return nil
}

func (r *PostgresRoleRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if pgErrorCode(err) == pgForeignKeyViolation {
		return apperrors.Wrap(apperrors.ErrConflict, "role is assigned to users", err)
	}
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	return nil
}

func (r *PostgresRoleRepo) CountUsers(ctx context.Context, roleID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM users WHERE role_id = $1`, roleID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count role users: %w", err)
	}
	return n, nil
}

func (r *PostgresRoleRepo) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

var _ RoleRepository = (*PostgresRoleRepo)(nil)
