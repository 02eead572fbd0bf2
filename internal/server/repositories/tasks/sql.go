// Package tasks provides the SQL-backed, owner-scoped task repository.
package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

const taskColumns = `id, title, description, state, user_id, created_at, updated_at`

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*models.Task, error) {
	t := &models.Task{}
	var state string
	err := row.Scan(&t.ID, &t.Title, &t.Description, &state, &t.UserID,
		dbx.Time(&t.CreatedAt), dbx.Time(&t.UpdatedAt))
	if err != nil {
		return nil, err
	}
	t.State = models.TaskState(state)
	return t, nil
}

func notFound() error {
	return &common.NotFoundError{Entity: common.EntityTask}
}

// Create inserts task. task.UserID must already hold the owner.
func (r *SQLRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query :=
		`INSERT INTO tasks (title, description, state, user_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, task.Title, task.Description, string(task.State), task.UserID).
		Scan(&task.ID, dbx.Time(&task.CreatedAt), dbx.Time(&task.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

func (r *SQLRepository) Get(ctx context.Context, ownerID, id int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound()
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

// List returns the owner's tasks matching every set filter field, ordered by
// id and windowed by page. Title and description match by case-sensitive
// containment.
func (r *SQLRepository) List(ctx context.Context, ownerID int64, filter models.TaskFilter, page models.Page) ([]*models.Task, error) {
	where := []string{"user_id = $1"}
	args := []any{ownerID}

	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Title != nil {
		where = append(where, r.dialect.Contains("title", next(*filter.Title)))
	}
	if filter.Description != nil {
		where = append(where, r.dialect.Contains("description", next(*filter.Description)))
	}
	if filter.State != nil {
		where = append(where, "state = "+next(string(*filter.State)))
	}

	limit := next(page.Limit)
	offset := next(page.Skip)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY id LIMIT ` + limit + ` OFFSET ` + offset

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Update overwrites the fields set in patch and always bumps updated_at.
func (r *SQLRepository) Update(ctx context.Context, ownerID, id int64, patch models.TaskPatch) (*models.Task, error) {
	query :=
		`UPDATE tasks SET
		   title = COALESCE($1, title),
		   description = COALESCE($2, description),
		   state = COALESCE($3, state),
		   updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4 AND user_id = $5
		 RETURNING ` + taskColumns

	var state any
	if patch.State != nil {
		state = string(*patch.State)
	}

	task, err := scanTask(r.db.QueryRowContext(ctx, query,
		nullable(patch.Title), nullable(patch.Description), state, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound()
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

func (r *SQLRepository) Delete(ctx context.Context, ownerID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return notFound()
	}
	return nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
