// Package servertest builds fully wired services over a throwaway SQLite
// database for transport tests.
package servertest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/metrics"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/todokeeper/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	Secret = "test-secret"
	TTL    = 30 * time.Minute
)

type Env struct {
	DB      *sql.DB
	Tokens  *auth.TokenService
	Metrics *metrics.Metrics
	Users   *services.UserService
	Tasks   *services.TaskService
}

// New migrates a fresh database under t.TempDir and wires the services on
// top of it. Everything is closed when t finishes.
func New(t testing.TB) *Env {
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
	tokens, err := auth.NewTokenService(Secret, "HS256", TTL)
	require.NoError(t, err)

	m := metrics.NewMetrics(prometheus.NewRegistry())

	return &Env{
		DB:      db,
		Tokens:  tokens,
		Metrics: m,
		Users: services.NewUserService(db, rm, hasher, tokens,
			services.WithUserMetrics(m),
			services.WithUserLogger(logging.Nop{})),
		Tasks: services.NewTaskService(db, rm, services.DefaultPaging, logging.Nop{}),
	}
}
