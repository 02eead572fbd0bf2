// Package server wires configuration, storage, services and transports
// together and runs the gRPC and HTTP servers until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/config"
	"github.com/dmitrijs2005/todokeeper/internal/server/metrics"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/todokeeper/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/todokeeper/internal/server/grpc"
	hs "github.com/dmitrijs2005/todokeeper/internal/server/http"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	metrics     *metrics.Metrics
	userService *services.UserService
	taskService *services.TaskService
}

// NewApp opens and migrates the database and builds the services. The
// caller owns the returned App and must Close it.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.NewJSON(os.Stdout, c.LogLevel)
	if err != nil {
		return nil, err
	}

	dialect, err := dbx.ParseDialect(c.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	db, err := repomanager.Open(ctx, dialect, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := newApp(ctx, c, logger, db, dialect, prometheus.NewRegistry())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB, dialect dbx.Dialect, reg *prometheus.Registry) (*App, error) {
	rm, err := repomanager.NewRepositoryManager(dialect)
	if err != nil {
		return nil, err
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	hasher, err := auth.NewPasswordHasher(c.BcryptCost)
	if err != nil {
		return nil, err
	}
	tokens, err := auth.NewTokenService(c.SecretKey, c.SigningAlgorithm, c.AccessTokenValidityDuration)
	if err != nil {
		return nil, err
	}

	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)
	m.RegisterDB(db)

	paging := services.Paging{DefaultLimit: c.DefaultPageSize, MaxLimit: c.MaxPageSize}
	us := services.NewUserService(db, rm, hasher, tokens,
		services.WithUserPaging(paging),
		services.WithUserMetrics(m),
		services.WithUserLogger(logger),
	)
	ts := services.NewTaskService(db, rm, paging, logger)

	return &App{config: c, logger: logger, db: db, metrics: m, userService: us, taskService: ts}, nil
}

func (app *App) initSignalHandler(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
}

// Run serves gRPC and HTTP until ctx is cancelled, a termination signal
// arrives, or either server fails. A failure of one server stops the other.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := app.initSignalHandler(ctx)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	grpcServer := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.taskService, app.metrics)
	httpServer := hs.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.taskService, app.metrics)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return grpcServer.Run(ctx) })
	g.Go(func() error { return httpServer.Run(ctx) })

	err := g.Wait()
	if err != nil {
		app.logger.Error(ctx, "server stopped", "error", err.Error())
	}
	app.logger.Info(ctx, "App stopped")
	return err
}

func (app *App) Close() error {
	return app.db.Close()
}
