package logic

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MapError converts a PDP Error to a gRPC status error for hosts that expose
// the page over RPC. Errors that already carry a gRPC status pass through,
// anything else becomes Unknown. nil maps to nil.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	var pdpErr *Error
	if errors.As(err, &pdpErr) {
		switch pdpErr.Status() {
		case StatusFailedPrecondition:
			return status.Error(codes.FailedPrecondition, pdpErr.Message)
		case StatusOutOfRange:
			return status.Error(codes.OutOfRange, pdpErr.Message)
		case StatusUnavailable:
			return status.Error(codes.Unavailable, pdpErr.Message)
		}
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Errorf(codes.Unknown, "%v", err)
}

// Code returns the gRPC code MapError would assign to err.
func Code(err error) codes.Code {
	return status.Code(MapError(err))
}
