package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/api"
	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/servertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

var t0 = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

type harness struct {
	env    *servertest.Env
	clock  *testClock
	conn   *grpc.ClientConn
	client api.TodoKeeperClient
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	env := servertest.New(t)
	clock := &testClock{now: t0}

	srv := NewGRPCServer("bufnet", logging.Nop{}, env.Users, env.Tasks, env.Metrics)
	srv.now = clock.Now

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &harness{env: env, clock: clock, conn: conn, client: api.NewTodoKeeperClient(conn)}
}

func withToken(token string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+token)
}

func (h *harness) register(t *testing.T, username, email, password string) string {
	t.Helper()
	ctx := context.Background()
	_, err := h.client.CreateUser(ctx, &api.CreateUserRequest{Username: username, Email: email, Password: password})
	require.NoError(t, err)
	tok, err := h.client.Login(ctx, &api.LoginRequest{Username: username, Password: password})
	require.NoError(t, err)
	return tok.AccessToken
}

func TestUsers_EndToEnd(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	u, err := h.client.CreateUser(ctx, &api.CreateUserRequest{Username: "alice", Email: "alice@x.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "alice", u.Username)

	_, err = h.client.CreateUser(ctx, &api.CreateUserRequest{Username: "alice", Email: "a2@x.com", Password: "secret"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "username")

	_, err = h.client.CreateUser(ctx, &api.CreateUserRequest{Username: "bob", Email: "nope", Password: "secret"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	list, err := h.client.ListUsers(ctx, &api.ListUsersRequest{})
	require.NoError(t, err)
	require.Len(t, list.Users, 1)

	got, err := h.client.GetUser(ctx, &api.GetUserRequest{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", got.Email)

	_, err = h.client.GetUser(ctx, &api.GetUserRequest{ID: 2})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = h.client.Login(ctx, &api.LoginRequest{Username: "alice", Password: "wrong"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	tok, err := h.client.Login(ctx, &api.LoginRequest{Username: "alice@x.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.Equal(t, int64(servertest.TTL/time.Second), tok.ExpiresIn)

	me, err := h.client.WhoAmI(withToken(tok.AccessToken), &api.Empty{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), me.ID)

	upd, err := h.client.UpdateUser(withToken(tok.AccessToken), &api.UpdateUserRequest{Username: "alice", Email: "alice@y.com", Password: "n3w"})
	require.NoError(t, err)
	assert.Equal(t, "alice@y.com", upd.Email)

	// the subject of the old token no longer names a user
	_, err = h.client.WhoAmI(withToken(tok.AccessToken), &api.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	tok, err = h.client.Login(ctx, &api.LoginRequest{Username: "alice", Password: "n3w"})
	require.NoError(t, err)

	msg, err := h.client.DeleteUser(withToken(tok.AccessToken), &api.Empty{})
	require.NoError(t, err)
	assert.Equal(t, "User deleted", msg.Message)
}

func TestProtectedMethods_RequireBearer(t *testing.T) {
	h := newHarness(t)
	tok := h.register(t, "alice", "alice@x.com", "secret")

	_, err := h.client.ListTasks(context.Background(), &api.ListTasksRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", tok)
	_, err = h.client.ListTasks(ctx, &api.ListTasksRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err), "scheme is required")

	_, err = h.client.ListTasks(withToken("garbage"), &api.ListTasksRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	h.clock.now = t0.Add(servertest.TTL)
	_, err = h.client.UpdateUser(withToken(tok), &api.UpdateUserRequest{Username: "alice", Email: "alice@x.com", Password: "x"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err), "expired token")
}

func TestRefreshToken(t *testing.T) {
	h := newHarness(t)
	tok := h.register(t, "alice", "alice@x.com", "secret")

	h.clock.now = t0.Add(20 * time.Minute)
	fresh, err := h.client.RefreshToken(withToken(tok), &api.Empty{})
	require.NoError(t, err)
	assert.NotEqual(t, tok, fresh.AccessToken)
	assert.Equal(t, int64(1800), fresh.ExpiresIn)

	h.clock.now = t0.Add(servertest.TTL + time.Minute)
	_, err = h.client.WhoAmI(withToken(fresh.AccessToken), &api.Empty{})
	require.NoError(t, err)

	_, err = h.client.RefreshToken(withToken(tok), &api.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = h.client.RefreshToken(context.Background(), &api.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestTasks_EndToEnd(t *testing.T) {
	h := newHarness(t)
	alice := withToken(h.register(t, "alice", "alice@x.com", "secret"))
	bob := withToken(h.register(t, "bob", "bob@x.com", "secret"))

	task, err := h.client.CreateTask(alice, &api.CreateTaskRequest{Title: "milk", Description: "2l", State: "todo"})
	require.NoError(t, err)
	_, err = h.client.CreateTask(alice, &api.CreateTaskRequest{Title: "bread", State: "done"})
	require.NoError(t, err)

	_, err = h.client.CreateTask(alice, &api.CreateTaskRequest{Title: "x", State: "later"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	later := "later"
	_, err = h.client.ListTasks(alice, &api.ListTasksRequest{State: &later})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	done := "done"
	list, err := h.client.ListTasks(alice, &api.ListTasksRequest{State: &done})
	require.NoError(t, err)
	require.Len(t, list.Tasks, 1)
	assert.Equal(t, "bread", list.Tasks[0].Title)

	_, err = h.client.GetTask(bob, &api.GetTaskRequest{ID: task.ID})
	assert.Equal(t, codes.NotFound, status.Code(err))
	_, err = h.client.DeleteTask(bob, &api.DeleteTaskRequest{ID: task.ID})
	assert.Equal(t, codes.NotFound, status.Code(err))

	doing := "doing"
	upd, err := h.client.UpdateTask(alice, &api.UpdateTaskRequest{ID: task.ID, State: &doing})
	require.NoError(t, err)
	assert.Equal(t, "milk", upd.Title)
	assert.Equal(t, "doing", upd.State)

	got, err := h.client.GetTask(alice, &api.GetTaskRequest{ID: task.ID})
	require.NoError(t, err)
	assert.Equal(t, "doing", got.State)

	msg, err := h.client.DeleteTask(alice, &api.DeleteTaskRequest{ID: task.ID})
	require.NoError(t, err)
	assert.Equal(t, "Task has been deleted successfully.", msg.Message)

	_, err = h.client.GetTask(alice, &api.GetTaskRequest{ID: task.ID})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestHealth(t *testing.T) {
	h := newHarness(t)

	resp, err := healthpb.NewHealthClient(h.conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: api.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	env := servertest.New(t)
	srv := NewGRPCServer("127.0.0.1:0", logging.Nop{}, env.Users, env.Tasks, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	srv := NewGRPCServer("127.0.0.1:99999", logging.Nop{}, nil, nil, nil)

	if err := srv.Run(context.Background()); err == nil {
		t.Fatal("expected listen error")
	}
}
