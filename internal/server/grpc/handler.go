package grpc

import (
	"context"

	"github.com/dmitrijs2005/todokeeper/internal/api"
	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

// handler implements api.TodoKeeperServer on top of the services.
type handler struct {
	api.UnimplementedTodoKeeperServer
	s *GRPCServer
}

var _ api.TodoKeeperServer = (*handler)(nil)

func toUser(u *models.User) *api.User {
	return &api.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toTask(t *models.Task) *api.Task {
	return &api.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		State:       string(t.State),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// parseState parses an optional state. A nil input stays nil.
func parseState(s *string) (*models.TaskState, error) {
	if s == nil {
		return nil, nil
	}
	state, err := models.ParseTaskState(*s)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (h *handler) tokenResponse(token string) *api.TokenResponse {
	return &api.TokenResponse{
		AccessToken: token,
		TokenType:   common.BearerScheme,
		ExpiresIn:   int64(h.s.users.TokenTTL().Seconds()),
	}
}

func (h *handler) CreateUser(ctx context.Context, req *api.CreateUserRequest) (*api.User, error) {
	user, err := h.s.users.CreateUser(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return nil, h.s.toStatus(ctx, err)
	}
	return toUser(user), nil
}

func (h *handler) ListUsers(ctx context.Context, req *api.ListUsersRequest) (*api.ListUsersResponse, error) {
	list, err := h.s.users.ListUsers(ctx, models.Page{Skip: req.Skip, Limit: req.Limit})
	if err != nil {
		return nil, h.s.toStatus(ctx, err)
	}
	resp := &api.ListUsersResponse{Users: make([]api.User, 0, len(list))}
	for _, u := range list {
		resp.Users = append(resp.Users, *toUser(u))
	}
	return resp, nil
}

func (h *handler) GetUser(ctx context.Context, req *api.GetUserRequest) (*api.User, error) {
	user, err := h.s.users.GetUser(ctx, req.ID)
	if err != nil {
		return nil, h.s.toStatus(ctx, err)
	}
	return toUser(user), nil
}

func (h *handler) UpdateUser(ctx context.Context, req *api.UpdateUserRequest) (*api.User, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	user, err := h.s.users.UpdateUser(ctx, caller, req.Username, req.Email, req.Password)
	if err != nil {
		return nil, h.s.toStatus(ctx, err)
	}
	return toUser(user), nil
}

func (h *handler) DeleteUser(ctx context.Context, _ *api.Empty) (*api.Message, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.s.users.DeleteUser(ctx, caller); err != nil {
		return nil, h.s.toStatus(ctx, err)
	}
	return &api.Message{Message: "User deleted"}, nil
}

func (h *handler) WhoAmI(ctx context.Context, _ *api.Empty) (*api.User, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	return toUser(caller), nil
}

func (h *handler) Login(ctx context.Context, req *api.LoginRequest) (*api.TokenResponse, error) {
	token, err := h.s.users.Login(ctx, req.Username, req.Password, h.s.now())
	if err != nil {
		return nil, h.s.toStatus(ctx, err)
	}
	return h.tokenResponse(token), nil
}

func (h *handler) RefreshToken(ctx context.Context, _ *api.Empty) (*api.TokenResponse, error) {
	token, err := h.s.users.Refresh(ctx, bearerToken(ctx), h.s.now())
	if err != nil {
		return nil, h.s.toStatus(ctx, err)
	}
	return h.tokenResponse(token), nil
}

func (h *handler) CreateTask(ctx context.Context, req *api.CreateTaskRequest) (*api.Task, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	state, err := models.ParseTaskState(req.State)
	if err != nil {
		return nil, h.s.toStatus(ctx, err)
	}
	task, err := h.s.tasks.CreateTask(ctx, caller, req.Title, req.Description, state)
	if err != nil {
		return nil, h.s.toStatus(ctx, err)
	}
	return toTask(task), nil
}

func (h *handler) ListTasks(ctx context.Context, req *api.ListTasksRequest) (*api.ListTasksResponse, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	state, err := parseState(req.State)
	if err != nil {
		return nil, h.s.toStatus(ctx, err)
	}
	filter := models.TaskFilter{Title: req.Title, Description: req.Description, State: state}
	list, err := h.s.tasks.ListTasks(ctx, caller, filter, models.Page{Skip: req.Skip, Limit: req.Limit})
	if err != nil {
		return nil, h.s.toStatus(ctx, err)
	}
	resp := &api.ListTasksResponse{Tasks: make([]api.Task, 0, len(list))}
	for _, t := range list {
		resp.Tasks = append(resp.Tasks, *toTask(t))
	}
	return resp, nil
}

func (h *handler) GetTask(ctx context.Context, req *api.GetTaskRequest) (*api.Task, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	task, err := h.s.tasks.GetTask(ctx, caller, req.ID)
	if err != nil {
		return nil, h.s.toStatus(ctx, err)
	}
	return toTask(task), nil
}

func (h *handler) UpdateTask(ctx context.Context, req *api.UpdateTaskRequest) (*api.Task, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	state, err := parseState(req.State)
	if err != nil {
		return nil, h.s.toStatus(ctx, err)
	}
	patch := models.TaskPatch{Title: req.Title, Description: req.Description, State: state}
	task, err := h.s.tasks.UpdateTask(ctx, caller, req.ID, patch)
	if err != nil {
		return nil, h.s.toStatus(ctx, err)
	}
	return toTask(task), nil
}

func (h *handler) DeleteTask(ctx context.Context, req *api.DeleteTaskRequest) (*api.Message, error) {
	caller, err := callerFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.s.tasks.DeleteTask(ctx, caller, req.ID); err != nil {
		return nil, h.s.toStatus(ctx, err)
	}
	return &api.Message{Message: "Task has been deleted successfully."}, nil
}
