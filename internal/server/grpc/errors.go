package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus converts a service error into the status returned to the caller.
// Causes are logged, never sent. Gate rejections all collapse into one
// PermissionDenied message, and unknown account and wrong password share
// one Unauthenticated message.
func (s *GRPCServer) toStatus(ctx context.Context, method string, err error) error {
	var (
		code codes.Code
		msg  string
	)
	switch {
	case errors.Is(err, common.ErrForbidden):
		code, msg = codes.PermissionDenied, "forbidden"
	case errors.Is(err, common.ErrInvalidRefreshToken):
		code, msg = codes.Unauthenticated, "invalid refresh token"
	case errors.Is(err, common.ErrInvalidCredentials):
		code, msg = codes.Unauthenticated, "invalid credentials"
	case errors.Is(err, common.ErrInvalidRequest), errors.Is(err, common.ErrMalformedAuthHeader):
		code, msg = codes.InvalidArgument, "invalid request"
	case errors.Is(err, common.ErrDuplicateAccount):
		code, msg = codes.AlreadyExists, "account already exists"
	case errors.Is(err, common.ErrAccountNotFound):
		code, msg = codes.NotFound, "account not found"
	default:
		s.logger.Error(ctx, "request failed", "method", method, "error", err.Error())
		return status.Error(codes.Internal, "internal error")
	}

	s.logger.Warn(ctx, "request rejected", "method", method, "code", code.String(), "cause", err.Error())
	return status.Error(code, msg)
}
