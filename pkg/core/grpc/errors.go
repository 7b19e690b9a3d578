package grpc

import (
	"context"
	"errors"

	mdwerror "github.com/msto63/lexzig/foundation/core/error"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToStatus converts err into a gRPC status error. Status errors pass
// through unchanged.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	var mdwErr *mdwerror.Error
	if !errors.As(err, &mdwErr) {
		return status.Error(codes.Internal, err.Error())
	}
	return status.Error(CodeFor(mdwErr.Code()), err.Error())
}

// CodeFor maps an error code to the closest gRPC code
func CodeFor(code mdwerror.Code) codes.Code {
	switch code {
	case mdwerror.CodeInvalidInput, mdwerror.CodeLexical, mdwerror.CodeSyntax, mdwerror.CodeTypeMismatch:
		return codes.InvalidArgument
	case mdwerror.CodeInputTooLarge:
		return codes.ResourceExhausted
	case mdwerror.CodeNotFound:
		return codes.NotFound
	case mdwerror.CodeTimeout:
		return codes.DeadlineExceeded
	case mdwerror.CodeCanceled:
		return codes.Canceled
	case mdwerror.CodeUnavailable, mdwerror.CodeStorageError:
		return codes.Unavailable
	case mdwerror.CodeConfigError, mdwerror.CodeInvalidConfig:
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}
