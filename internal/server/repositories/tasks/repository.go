package tasks

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

// Repository persists tasks. Every method is scoped to an owner: rows of
// other users are invisible and reported exactly like missing rows, as a
// *common.NotFoundError.
type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	Get(ctx context.Context, ownerID, id int64) (*models.Task, error)
	List(ctx context.Context, ownerID int64, filter models.TaskFilter, page models.Page) ([]*models.Task, error)
	Update(ctx context.Context, ownerID, id int64, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, ownerID, id int64) error
}
