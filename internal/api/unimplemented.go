package api

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// UnimplementedTodoKeeperServer answers every method with
// codes.Unimplemented. Embed it to implement a subset of the service.
type UnimplementedTodoKeeperServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedTodoKeeperServer) CreateUser(context.Context, *CreateUserRequest) (*User, error) {
	return nil, unimplemented(MethodCreateUser)
}
func (UnimplementedTodoKeeperServer) ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error) {
	return nil, unimplemented(MethodListUsers)
}
func (UnimplementedTodoKeeperServer) GetUser(context.Context, *GetUserRequest) (*User, error) {
	return nil, unimplemented(MethodGetUser)
}
func (UnimplementedTodoKeeperServer) UpdateUser(context.Context, *UpdateUserRequest) (*User, error) {
	return nil, unimplemented(MethodUpdateUser)
}
func (UnimplementedTodoKeeperServer) DeleteUser(context.Context, *Empty) (*Message, error) {
	return nil, unimplemented(MethodDeleteUser)
}
func (UnimplementedTodoKeeperServer) WhoAmI(context.Context, *Empty) (*User, error) {
	return nil, unimplemented(MethodWhoAmI)
}
func (UnimplementedTodoKeeperServer) Login(context.Context, *LoginRequest) (*TokenResponse, error) {
	return nil, unimplemented(MethodLogin)
}
func (UnimplementedTodoKeeperServer) RefreshToken(context.Context, *Empty) (*TokenResponse, error) {
	return nil, unimplemented(MethodRefreshToken)
}
func (UnimplementedTodoKeeperServer) CreateTask(context.Context, *CreateTaskRequest) (*Task, error) {
	return nil, unimplemented(MethodCreateTask)
}
func (UnimplementedTodoKeeperServer) ListTasks(context.Context, *ListTasksRequest) (*ListTasksResponse, error) {
	return nil, unimplemented(MethodListTasks)
}
func (UnimplementedTodoKeeperServer) GetTask(context.Context, *GetTaskRequest) (*Task, error) {
	return nil, unimplemented(MethodGetTask)
}
func (UnimplementedTodoKeeperServer) UpdateTask(context.Context, *UpdateTaskRequest) (*Task, error) {
	return nil, unimplemented(MethodUpdateTask)
}
func (UnimplementedTodoKeeperServer) DeleteTask(context.Context, *DeleteTaskRequest) (*Message, error) {
	return nil, unimplemented(MethodDeleteTask)
}
