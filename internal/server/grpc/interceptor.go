package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/api"
	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const callerKey ctxKey = "caller"

// protected lists the methods that act on behalf of an authenticated caller.
var protected = map[string]bool{
	api.FullMethod(api.MethodUpdateUser): true,
	api.FullMethod(api.MethodDeleteUser): true,
	api.FullMethod(api.MethodWhoAmI):     true,
	api.FullMethod(api.MethodCreateTask): true,
	api.FullMethod(api.MethodListTasks):  true,
	api.FullMethod(api.MethodGetTask):    true,
	api.FullMethod(api.MethodUpdateTask): true,
	api.FullMethod(api.MethodDeleteTask): true,
}

// bearerToken extracts the token of an "authorization: Bearer <token>"
// metadata entry, or "".
func bearerToken(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(common.AccessTokenHeaderName)
	if len(values) == 0 {
		return ""
	}
	return common.BearerToken(values[0])
}

// accessTokenInterceptor resolves the caller of protected methods once and
// stores it in the context.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !protected[info.FullMethod] {
		return handler(ctx, req)
	}

	user, err := s.users.Authenticate(ctx, bearerToken(ctx), s.now())
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return handler(context.WithValue(ctx, callerKey, user), req)
}

// callerFrom returns the user stored by accessTokenInterceptor.
func callerFrom(ctx context.Context) (*models.User, error) {
	user, ok := ctx.Value(callerKey).(*models.User)
	if !ok || user == nil {
		return nil, errUnauthenticated
	}
	return user, nil
}

// loggingInterceptor logs every call once and records its metrics.
func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	requestID := uuid.NewString()

	resp, err := handler(ctx, req)

	method := info.FullMethod[strings.LastIndex(info.FullMethod, "/")+1:]
	code := status.Code(err)
	d := time.Since(start)

	s.metrics.ObserveCall("grpc", method, code.String(), d)
	s.logger.Info(ctx, "grpc call",
		"request_id", requestID,
		"method", method,
		"code", code.String(),
		"duration", d,
	)

	return resp, err
}
