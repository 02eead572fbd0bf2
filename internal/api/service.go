package api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "todokeeper.TodoKeeper"

const (
	MethodCreateUser   = "CreateUser"
	MethodListUsers    = "ListUsers"
	MethodGetUser      = "GetUser"
	MethodUpdateUser   = "UpdateUser"
	MethodDeleteUser   = "DeleteUser"
	MethodWhoAmI       = "WhoAmI"
	MethodLogin        = "Login"
	MethodRefreshToken = "RefreshToken"
	MethodCreateTask   = "CreateTask"
	MethodListTasks    = "ListTasks"
	MethodGetTask      = "GetTask"
	MethodUpdateTask   = "UpdateTask"
	MethodDeleteTask   = "DeleteTask"
)

// FullMethod returns the "/service/method" path of a method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// TodoKeeperServer is the server API for the TodoKeeper service.
type TodoKeeperServer interface {
	CreateUser(context.Context, *CreateUserRequest) (*User, error)
	ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error)
	GetUser(context.Context, *GetUserRequest) (*User, error)
	UpdateUser(context.Context, *UpdateUserRequest) (*User, error)
	DeleteUser(context.Context, *Empty) (*Message, error)
	WhoAmI(context.Context, *Empty) (*User, error)
	Login(context.Context, *LoginRequest) (*TokenResponse, error)
	RefreshToken(context.Context, *Empty) (*TokenResponse, error)
	CreateTask(context.Context, *CreateTaskRequest) (*Task, error)
	ListTasks(context.Context, *ListTasksRequest) (*ListTasksResponse, error)
	GetTask(context.Context, *GetTaskRequest) (*Task, error)
	UpdateTask(context.Context, *UpdateTaskRequest) (*Task, error)
	DeleteTask(context.Context, *DeleteTaskRequest) (*Message, error)
}

func RegisterTodoKeeperServer(s grpc.ServiceRegistrar, srv TodoKeeperServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc describes the TodoKeeper service for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TodoKeeperServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodCreateUser, TodoKeeperServer.CreateUser),
		unary(MethodListUsers, TodoKeeperServer.ListUsers),
		unary(MethodGetUser, TodoKeeperServer.GetUser),
		unary(MethodUpdateUser, TodoKeeperServer.UpdateUser),
		unary(MethodDeleteUser, TodoKeeperServer.DeleteUser),
		unary(MethodWhoAmI, TodoKeeperServer.WhoAmI),
		unary(MethodLogin, TodoKeeperServer.Login),
		unary(MethodRefreshToken, TodoKeeperServer.RefreshToken),
		unary(MethodCreateTask, TodoKeeperServer.CreateTask),
		unary(MethodListTasks, TodoKeeperServer.ListTasks),
		unary(MethodGetTask, TodoKeeperServer.GetTask),
		unary(MethodUpdateTask, TodoKeeperServer.UpdateTask),
		unary(MethodDeleteTask, TodoKeeperServer.DeleteTask),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "todokeeper",
}

// unary builds the method descriptor for one request/response call,
// decoding the request and routing it through the server interceptor.
func unary[Req, Resp any](name string, call func(TodoKeeperServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(TodoKeeperServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(TodoKeeperServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
