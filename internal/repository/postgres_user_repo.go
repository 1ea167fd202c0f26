package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"auctionhouse/internal/apperrors"
	"auctionhouse/internal/models"
)

const userSelect = `
	SELECT u.id, u.email, u.password_hash, u.first_name, u.last_name, u.avatar,
	       u.role_id, r.name, u.created_at, u.updated_at
	  FROM users u
	  LEFT JOIN roles r ON r.id = u.role_id`

type PostgresUserRepo struct {
	db *sql.DB
}

func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

func scanUser(s rowScanner) (*models.User, error) {
	var (
		u        models.User
		roleID   sql.NullString
		roleName sql.NullString
	)
	err := s.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Avatar,
		&roleID, &roleName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if roleID.Valid {
		id := roleID.String
		u.RoleID = &id
		u.Role = &models.Role{ID: id, Name: roleName.String}
	}
	return &u, nil
}

func (r *PostgresUserRepo) findOne(ctx context.Context, where string, arg any) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, userSelect+" WHERE "+where, arg))
	if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, "u.id = $1", id)
}

func (r *PostgresUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "lower(u.email) = lower($1)", email)
}

func (r *PostgresUserRepo) Create(ctx context.Context, u *models.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, first_name, last_name, avatar, role_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Avatar, u.RoleID, u.CreatedAt, u.UpdatedAt,
	)
	switch pgErrorCode(err) {
	case "":
	case pgUniqueViolation:
		return apperrors.Wrap(apperrors.ErrConflict, "email already registered", err)
	case pgForeignKeyViolation, pgInvalidText:
		return apperrors.Wrap(apperrors.ErrInvalidInput, "role does not exist", err)
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepo) Update(ctx context.Context, u *models.User) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users
		    SET email = $2, first_name = $3, last_name = $4, avatar = $5, role_id = $6, updated_at = $7
		  WHERE id = $1`,
		u.ID, u.Email, u.FirstName, u.LastName, u.Avatar, u.RoleID, u.UpdatedAt,
	)
	switch pgErrorCode(err) {
	case "":
	case pgUniqueViolation:
		return apperrors.Wrap(apperrors.ErrConflict, "email already registered", err)
	case pgForeignKeyViolation, pgInvalidText:
		return apperrors.Wrap(apperrors.ErrInvalidInput, "role does not exist", err)
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		id, passwordHash, at,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (r *PostgresUserRepo) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		userSelect+" ORDER BY u.created_at ASC, u.id LIMIT $1 OFFSET $2",
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *PostgresUserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

var _ UserRepository = (*PostgresUserRepo)(nil)
