package api

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/ele/internal/common"
)

// sentinel errors travel as a status code plus their own text, so both sides
// can map them without a custom details payload.
var statusTable = []struct {
	err  error
	code codes.Code
}{
	{common.ErrTokenExpired, codes.Unauthenticated},
	{common.ErrRefreshTokenExpired, codes.Unauthenticated},
	{common.ErrInvalidToken, codes.Unauthenticated},
	{common.ErrorUnauthorized, codes.Unauthenticated},
	{common.ErrUnsupportedProvider, codes.InvalidArgument},
	{common.ErrResetTokenExpired, codes.FailedPrecondition},
	{common.ErrorAlreadyExists, codes.AlreadyExists},
	{common.ErrorNotFound, codes.NotFound},
	{common.ErrorForbidden, codes.PermissionDenied},
	{common.ErrorRateLimited, codes.ResourceExhausted},
	{common.ErrorUnavailable, codes.Unavailable},
}

// ToStatus converts a service error into a gRPC status error. Validation
// errors keep their full text; unknown errors become a bare codes.Internal.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	if errors.Is(err, common.ErrorValidation) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	for _, e := range statusTable {
		if errors.Is(err, e.err) {
			return status.Error(e.code, e.err.Error())
		}
	}
	return status.Error(codes.Internal, common.ErrorInternal.Error())
}

// FromStatus is the client-side inverse of ToStatus. Errors that carry no
// gRPC status are returned unchanged.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	for _, e := range statusTable {
		if st.Code() == e.code && st.Message() == e.err.Error() {
			return e.err
		}
	}

	switch st.Code() {
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrorValidation, st.Message())
	case codes.Unauthenticated:
		return common.ErrorUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", common.ErrorUnavailable, st.Message())
	}
	return fmt.Errorf("%w: %s", common.ErrorInternal, st.Message())
}
