package api

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/slackvault/internal/api/vaultv1"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	grpcstatus "google.golang.org/grpc/status"
)

// RequestIDKey is the metadata key carrying the per-call request id.
const RequestIDKey = "x-request-id"

// requestID returns the caller's request id, or a fresh one.
func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(RequestIDKey); len(v) > 0 && v[0] != "" {
			return v[0]
		}
	}
	return uuid.NewString()
}

// LoggingInterceptor logs every unary call with its request id, code and
// duration, and echoes the request id in the response header.
func LoggingInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		id := requestID(ctx)
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDKey, id))

		start := time.Now()
		resp, err := handler(ctx, req)
		code := grpcstatus.Code(err)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("request_id", id),
			zap.String("code", code.String()),
			zap.Duration("duration", time.Since(start)),
		}
		switch code {
		case codes.OK, codes.NotFound, codes.InvalidArgument, codes.Canceled:
			log.Debug("rpc", fields...)
		default:
			log.Warn("rpc", append(fields, zap.Error(err))...)
		}
		return resp, err
	}
}

// StreamLoggingInterceptor logs the lifetime of streaming calls.
func StreamLoggingInterceptor(log *zap.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		id := requestID(ss.Context())
		log.Debug("stream opened", zap.String("method", info.FullMethod), zap.String("request_id", id))
		err := handler(srv, ss)
		log.Debug("stream closed",
			zap.String("method", info.FullMethod),
			zap.String("request_id", id),
			zap.String("code", grpcstatus.Code(err).String()))
		return err
	}
}

// SearchLimiter rejects Search calls beyond r per second with bursts of b.
// A zero r disables limiting.
func SearchLimiter(r float64, b int) grpc.UnaryServerInterceptor {
	if r <= 0 {
		return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
			return handler(ctx, req)
		}
	}
	if b < 1 {
		b = 1
	}
	lim := rate.NewLimiter(rate.Limit(r), b)
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if info.FullMethod == vaultv1.ArchiveService_Search_FullMethodName && !lim.Allow() {
			return nil, grpcstatus.Error(codes.ResourceExhausted, "search rate limit exceeded")
		}
		return handler(ctx, req)
	}
}
