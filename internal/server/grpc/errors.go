package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errUnauthenticated = status.Error(codes.Unauthenticated, common.ErrUnauthenticated.Error())

// toStatus maps service errors to gRPC statuses. Anything that is not a
// domain error becomes codes.Internal with a generic message; the cause is
// logged.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	var (
		ce *common.ConflictError
		nf *common.NotFoundError
		ve *common.ValidationError
	)

	switch {
	case errors.Is(err, common.ErrUnauthenticated):
		return errUnauthenticated
	case errors.As(err, &ce):
		return status.Error(codes.AlreadyExists, ce.Error())
	case errors.As(err, &nf):
		return status.Error(codes.NotFound, nf.Error())
	case errors.As(err, &ve):
		return status.Error(codes.InvalidArgument, ve.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		s.logger.Error(ctx, "internal error", "error", err.Error())
		return status.Error(codes.Internal, "internal error")
	}
}
