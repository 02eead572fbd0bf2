package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testTTL = 30 * time.Minute

var t0 = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

// fixtureUser pairs a stored user with the plaintext password it was
// created with.
type fixtureUser struct {
	user     *models.User
	password string
}

type testEnv struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	tokens *auth.TokenService
	users  *UserService
	tasks  *TaskService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := repomanager.Open(ctx, dbx.SQLite, filepath.Join(t.TempDir(), "todokeeper.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rm, err := repomanager.NewRepositoryManager(dbx.SQLite)
	require.NoError(t, err)
	require.NoError(t, rm.RunMigrations(ctx, db))

	hasher, err := auth.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService("test-secret", "HS256", testTTL)
	require.NoError(t, err)

	paging := Paging{DefaultLimit: 100, MaxLimit: 2}

	return &testEnv{
		db:     db,
		rm:     rm,
		tokens: tokens,
		users:  NewUserService(db, rm, hasher, tokens, WithUserPaging(paging)),
		tasks:  NewTaskService(db, rm, paging, nil),
	}
}

func (e *testEnv) createUser(t *testing.T, username, email, password string) fixtureUser {
	t.Helper()
	u, err := e.users.CreateUser(context.Background(), username, email, password)
	require.NoError(t, err)
	return fixtureUser{user: u, password: password}
}

func (e *testEnv) createTask(t *testing.T, owner fixtureUser, title, description string, state models.TaskState) *models.Task {
	t.Helper()
	task, err := e.tasks.CreateTask(context.Background(), owner.user, title, description, state)
	require.NoError(t, err)
	return task
}

func ptr[T any](v T) *T { return &v }
