package users

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

// Repository persists users. Methods that find nothing return a
// *common.NotFoundError; writes that collide with a unique column return a
// *common.ConflictError naming the column.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) ([]*models.User, error)
	List(ctx context.Context, page models.Page) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}
