package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/repomanager"
)

// TaskService runs task operations on behalf of an authenticated caller.
// Every read and write is restricted to tasks the caller owns.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	paging      Paging
	logger      logging.Logger
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager, paging Paging, logger logging.Logger) *TaskService {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &TaskService{
		db:          db,
		repomanager: m,
		paging:      paging,
		logger:      logger.With("module", "task_service"),
	}
}

// CreateTask stores a new task owned by caller.
func (s *TaskService) CreateTask(ctx context.Context, caller *models.User, title, description string, state models.TaskState) (*models.Task, error) {
	if !state.Valid() {
		return nil, invalidState(state)
	}

	var created *models.Task
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		created, err = s.repomanager.Tasks(tx).Create(ctx, &models.Task{
			Title:       title,
			Description: description,
			State:       state,
			UserID:      caller.ID,
		})
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	s.logger.Debug(ctx, "task created", "user_id", caller.ID, "task_id", created.ID)
	return created, nil
}

// ListTasks returns the caller's tasks matching filter, in id order.
func (s *TaskService) ListTasks(ctx context.Context, caller *models.User, filter models.TaskFilter, page models.Page) ([]*models.Task, error) {
	if filter.State != nil && !filter.State.Valid() {
		return nil, invalidState(*filter.State)
	}
	page, err := s.paging.Page(page)
	if err != nil {
		return nil, err
	}

	var result []*models.Task
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		result, err = s.repomanager.Tasks(tx).List(ctx, caller.ID, filter, page)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	return result, nil
}

// GetTask returns task id if caller owns it. A task owned by someone else
// is reported exactly like a missing one.
func (s *TaskService) GetTask(ctx context.Context, caller *models.User, id int64) (*models.Task, error) {
	var task *models.Task
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		task, err = s.repomanager.Tasks(tx).Get(ctx, caller.ID, id)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	return task, nil
}

// UpdateTask applies the fields set in patch. An empty patch only bumps
// updated_at.
func (s *TaskService) UpdateTask(ctx context.Context, caller *models.User, id int64, patch models.TaskPatch) (*models.Task, error) {
	if patch.State != nil && !patch.State.Valid() {
		return nil, invalidState(*patch.State)
	}

	var task *models.Task
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		task, err = s.repomanager.Tasks(tx).Update(ctx, caller.ID, id, patch)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, caller *models.User, id int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Tasks(tx).Delete(ctx, caller.ID, id)
	})
	if err != nil {
		return classify(err)
	}
	s.logger.Debug(ctx, "task deleted", "user_id", caller.ID, "task_id", id)
	return nil
}

func invalidState(state models.TaskState) error {
	_, err := models.ParseTaskState(string(state))
	return err
}
