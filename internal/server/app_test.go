package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/config"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/repomanager"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.DatabaseDSN = filepath.Join(t.TempDir(), "app.db")
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.BcryptCost = 4
	c.DefaultPageSize = 2
	c.MaxPageSize = 3
	return c
}

func newTestApp(t *testing.T, c *config.Config) *App {
	t.Helper()
	ctx := context.Background()
	db, err := repomanager.Open(ctx, dbx.SQLite, c.DatabaseDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	app, err := newApp(ctx, c, logging.Nop{}, db, dbx.SQLite, prometheus.NewRegistry())
	require.NoError(t, err)
	return app
}

func TestNewApp_WiresServicesFromConfig(t *testing.T) {
	c := testConfig(t)
	app := newTestApp(t, c)
	ctx := context.Background()
	now := time.Now()

	for _, name := range []string{"a", "b", "c", "d"} {
		_, err := app.userService.CreateUser(ctx, name, name+"@example.com", "pw")
		require.NoError(t, err)
	}

	list, err := app.userService.ListUsers(ctx, models.Page{})
	require.NoError(t, err)
	assert.Len(t, list, 2, "default page size from config")

	list, err = app.userService.ListUsers(ctx, models.Page{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, list, 3, "max page size from config")

	token, err := app.userService.Login(ctx, "a", "pw", now)
	require.NoError(t, err)
	user, err := app.userService.Authenticate(ctx, token, now)
	require.NoError(t, err)
	assert.Equal(t, "a", user.Username)

	_, err = app.userService.Authenticate(ctx, token, now.Add(c.AccessTokenValidityDuration))
	assert.Error(t, err)
}

func TestNewApp_RejectsBadSettings(t *testing.T) {
	c := testConfig(t)
	c.SigningAlgorithm = "none"

	db, err := repomanager.Open(context.Background(), dbx.SQLite, c.DatabaseDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = newApp(context.Background(), c, logging.Nop{}, db, dbx.SQLite, prometheus.NewRegistry())
	assert.Error(t, err)

	c = testConfig(t)
	c.LogLevel = "loud"
	_, err = NewApp(context.Background(), c)
	assert.Error(t, err)

	c = testConfig(t)
	c.DatabaseDriver = "mysql"
	_, err = NewApp(context.Background(), c)
	assert.Error(t, err)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	c := testConfig(t)
	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestApp_RunFailsOnBadAddress(t *testing.T) {
	c := testConfig(t)
	c.EndpointAddrHTTP = "bad-address"
	app := newTestApp(t, c)

	select {
	case err := <-runAsync(app):
		assert.Error(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("app did not stop")
	}
}

func runAsync(app *App) <-chan error {
	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()
	return done
}
