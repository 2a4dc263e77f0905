package grpcapi

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-settlement-service/internal/domain"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToStatus converts a domain error into a gRPC status error. Internal causes
// are not exposed to the caller.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		var derr *domain.Error
		if !errors.As(err, &derr) {
			return err
		}
	}
	switch domain.CodeOf(err) {
	case domain.CodeNotFound:
		return status.Error(codes.NotFound, err.Error())
	case domain.CodeAlreadyPaid:
		return status.Error(codes.FailedPrecondition, err.Error())
	case domain.CodeAmountMismatch, domain.CodeInvalidInput:
		return status.Error(codes.InvalidArgument, err.Error())
	case domain.CodeUnauthorized:
		return status.Error(codes.PermissionDenied, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// UnaryErrorInterceptor logs each call and maps returned domain errors.
func UnaryErrorInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	if err != nil {
		slog.Warn("grpc call failed", "method", info.FullMethod, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return resp, ToStatus(err)
	}
	slog.Debug("grpc call", "method", info.FullMethod, "duration_ms", time.Since(start).Milliseconds())
	return resp, nil
}
