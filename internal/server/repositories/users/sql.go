// Package users provides the SQL-backed user repository. Queries are written
// once for both supported dialects.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

const userColumns = `id, username, email, password, created_at, updated_at`

// SQLRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, dbx.Time(&u.CreatedAt), dbx.Time(&u.UpdatedAt)); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *SQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (username, email, password)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, dbx.Time(&user.CreatedAt), dbx.Time(&user.UpdatedAt))
	if err != nil {
		return nil, translateWriteError(err)
	}

	return user, nil
}

func (r *SQLRepository) getOne(ctx context.Context, where string, args ...any) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where

	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &common.NotFoundError{Entity: common.EntityUser}
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, `id = $1`, id)
}

func (r *SQLRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `email = $1`, email)
}

// GetByLogin finds the user whose username or email equals login.
func (r *SQLRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	return r.getOne(ctx, `username = $1 OR email = $1 ORDER BY id LIMIT 1`, login)
}

// FindByUsernameOrEmail returns every user holding either value. At most two
// rows can match because both columns are unique.
func (r *SQLRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $2 ORDER BY id`
	return r.queryMany(ctx, query, username, email)
}

func (r *SQLRepository) List(ctx context.Context, page models.Page) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT $1 OFFSET $2`
	return r.queryMany(ctx, query, page.Limit, page.Skip)
}

func (r *SQLRepository) queryMany(ctx context.Context, query string, args ...any) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Update replaces username, email and password hash of an existing user.
func (r *SQLRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`UPDATE users SET username = $1, email = $2, password = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4
		 RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.PasswordHash, user.ID).
		Scan(dbx.Time(&user.CreatedAt), dbx.Time(&user.UpdatedAt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &common.NotFoundError{Entity: common.EntityUser}
		}
		return nil, translateWriteError(err)
	}
	return user, nil
}

// Delete removes a user; owned tasks go with it through ON DELETE CASCADE.
func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return &common.NotFoundError{Entity: common.EntityUser}
	}
	return nil
}

// translateWriteError turns a unique violation into a ConflictError naming
// the colliding column and wraps anything else.
func translateWriteError(err error) error {
	detail, ok := dbx.UniqueViolation(err)
	if !ok {
		return fmt.Errorf("db error: %w", err)
	}
	switch {
	case strings.Contains(detail, common.FieldUsername):
		return &common.ConflictError{Field: common.FieldUsername}
	case strings.Contains(detail, common.FieldEmail):
		return &common.ConflictError{Field: common.FieldEmail}
	default:
		return &common.ConflictError{Field: "record"}
	}
}
