package client

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/logging"
	gs "github.com/dmitrijs2005/todokeeper/internal/server/grpc"
	"github.com/dmitrijs2005/todokeeper/internal/server/servertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func newTestClient(t *testing.T) *GRPCClient {
	t.Helper()

	env := servertest.New(t)
	srv := gs.NewGRPCServer("bufnet", logging.Nop{}, env.Users, env.Tasks, env.Metrics)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	c, err := NewGRPCClient("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestGRPCClient_Session(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))
	assert.False(t, c.LoggedIn())

	_, err := c.WhoAmI(ctx)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, c.Refresh(ctx), ErrNotLoggedIn)

	require.NoError(t, c.Register(ctx, "alice", "alice@example.com", []byte("pw-alice")))
	assert.ErrorIs(t, c.Register(ctx, "alice", "other@example.com", []byte("pw")), ErrAlreadyExists)
	assert.ErrorIs(t, c.Register(ctx, "bob", "nope", []byte("pw")), ErrInvalidInput)

	assert.ErrorIs(t, c.Login(ctx, "alice", []byte("wrong")), ErrUnauthorized)
	assert.False(t, c.LoggedIn())

	require.NoError(t, c.Login(ctx, "alice@example.com", []byte("pw-alice")))
	assert.True(t, c.LoggedIn())

	me, err := c.WhoAmI(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	require.NoError(t, c.Refresh(ctx))
	_, err = c.WhoAmI(ctx)
	require.NoError(t, err)

	c.Logout()
	assert.False(t, c.LoggedIn())
	_, err = c.WhoAmI(ctx)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGRPCClient_Tasks(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Register(ctx, "alice", "alice@example.com", []byte("pw-alice")))
	require.NoError(t, c.Login(ctx, "alice", []byte("pw-alice")))

	milk, err := c.AddTask(ctx, "Buy milk", "", "todo")
	require.NoError(t, err)
	_, err = c.AddTask(ctx, "Read book", "", "doing")
	require.NoError(t, err)

	_, err = c.AddTask(ctx, "x", "", "someday")
	assert.ErrorIs(t, err, ErrInvalidInput)

	all, err := c.ListTasks(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	done, err := c.MarkDone(ctx, milk.ID)
	require.NoError(t, err)
	assert.Equal(t, "done", done.State)

	onlyDone, err := c.ListTasks(ctx, "done")
	require.NoError(t, err)
	require.Len(t, onlyDone, 1)
	assert.Equal(t, milk.ID, onlyDone[0].ID)

	require.NoError(t, c.DeleteTask(ctx, milk.ID))
	assert.ErrorIs(t, c.DeleteTask(ctx, milk.ID), ErrNotFound)
	_, err = c.MarkDone(ctx, milk.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	tests := []struct {
		code codes.Code
		want error
	}{
		{codes.Unauthenticated, ErrUnauthorized},
		{codes.PermissionDenied, ErrUnauthorized},
		{codes.Unavailable, ErrUnavailable},
		{codes.DeadlineExceeded, ErrUnavailable},
		{codes.NotFound, ErrNotFound},
		{codes.AlreadyExists, ErrAlreadyExists},
		{codes.InvalidArgument, ErrInvalidInput},
	}
	for _, tc := range tests {
		t.Run(tc.code.String(), func(t *testing.T) {
			assert.ErrorIs(t, c.mapError(status.Error(tc.code, "x")), tc.want)
		})
	}

	assert.NoError(t, c.mapError(nil))

	err := c.mapError(status.Error(codes.Internal, "boom"))
	require.Error(t, err)
	for _, sentinel := range []error{ErrUnauthorized, ErrUnavailable, ErrNotFound, ErrAlreadyExists, ErrInvalidInput} {
		assert.False(t, errors.Is(err, sentinel))
	}
}

func TestPing_Unavailable(t *testing.T) {
	lis := bufconn.Listen(1 << 10)
	require.NoError(t, lis.Close())

	c, err := NewGRPCClient("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.Ping(ctx), ErrUnavailable)
}
