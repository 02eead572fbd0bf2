package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/todokeeper/internal/api"
	"github.com/dmitrijs2005/todokeeper/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      api.TodoKeeperClient
	health      healthpb.HealthClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	md.Set(common.AccessTokenHeaderName, common.BearerScheme+" "+token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient creates a lazily connecting client for endpointURL. Extra
// dial options are appended after the defaults.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = api.NewTodoKeeperClient(conn)
	c.health = healthpb.NewHealthClient(conn)
	return c, nil
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
}

func (s *GRPCClient) LoggedIn() bool {
	return s.token() != ""
}

func (s *GRPCClient) Register(ctx context.Context, username, email string, password []byte) error {
	req := &api.CreateUserRequest{Username: username, Email: email, Password: string(password)}
	if _, err := s.client.CreateUser(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

// Login exchanges credentials for an access token and keeps it for later
// calls. login may be a username or an email.
func (s *GRPCClient) Login(ctx context.Context, login string, password []byte) error {
	resp, err := s.client.Login(ctx, &api.LoginRequest{Username: login, Password: string(password)})
	if err != nil {
		return s.mapError(err)
	}
	s.setToken(resp.AccessToken)
	return nil
}

func (s *GRPCClient) Logout() {
	s.setToken("")
}

// Refresh replaces the kept token with a freshly issued one.
func (s *GRPCClient) Refresh(ctx context.Context) error {
	if !s.LoggedIn() {
		return ErrNotLoggedIn
	}
	resp, err := s.client.RefreshToken(ctx, &api.Empty{})
	if err != nil {
		return s.mapError(err)
	}
	s.setToken(resp.AccessToken)
	return nil
}

func (s *GRPCClient) WhoAmI(ctx context.Context) (*api.User, error) {
	u, err := s.client.WhoAmI(ctx, &api.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return u, nil
}

func (s *GRPCClient) AddTask(ctx context.Context, title, description, state string) (*api.Task, error) {
	t, err := s.client.CreateTask(ctx, &api.CreateTaskRequest{Title: title, Description: description, State: state})
	if err != nil {
		return nil, s.mapError(err)
	}
	return t, nil
}

// ListTasks returns the caller's tasks, optionally narrowed to state. An
// empty state lists every task.
func (s *GRPCClient) ListTasks(ctx context.Context, state string) ([]api.Task, error) {
	req := &api.ListTasksRequest{}
	if state != "" {
		req.State = &state
	}
	resp, err := s.client.ListTasks(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Tasks, nil
}

func (s *GRPCClient) MarkDone(ctx context.Context, id int64) (*api.Task, error) {
	done := "done"
	t, err := s.client.UpdateTask(ctx, &api.UpdateTaskRequest{ID: id, State: &done})
	if err != nil {
		return nil, s.mapError(err)
	}
	return t, nil
}

func (s *GRPCClient) DeleteTask(ctx context.Context, id int64) error {
	if _, err := s.client.DeleteTask(ctx, &api.DeleteTaskRequest{ID: id}); err != nil {
		return s.mapError(err)
	}
	return nil
}

// Ping reports whether the server answers its health check as serving.
func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrAlreadyExists, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidInput, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
