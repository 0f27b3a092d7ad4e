package grpc

import (
	"errors"

	"github.com/DRSN-tech/calories-backend/pkg/e"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func GRPCErrorResponse(err error) error {
	switch {
	case errors.Is(err, e.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, e.ErrNotFound):
		return status.Error(codes.NotFound, e.ErrNotFound.Error())
	case errors.Is(err, e.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, e.ErrUnauthorized.Error())
	case errors.Is(err, e.ErrForbidden):
		return status.Error(codes.PermissionDenied, e.ErrForbidden.Error())
	default:
		return status.Error(codes.Internal, e.ErrInternalServerError.Error())
	}
}
