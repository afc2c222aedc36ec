package api

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/matheus3301/slackvault/internal/api/vaultv1"
	"github.com/matheus3301/slackvault/internal/store"
	"github.com/matheus3301/slackvault/internal/timestamp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	grpcstatus "google.golang.org/grpc/status"
)

func TestToStatus(t *testing.T) {
	_, cursorErr := timestamp.Parse("bogus")
	_, storedErr := timestamp.ParseStored("bogus")

	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"nil", nil, codes.OK},
		{"not found", fmt.Errorf("channel %q: %w", "x", store.ErrNotFound), codes.NotFound},
		{"unavailable", fmt.Errorf("%w: acquire", store.ErrStoreUnavailable), codes.Unavailable},
		{"bad cursor", fmt.Errorf("cursor: %w", cursorErr), codes.InvalidArgument},
		{"corrupt row", storedErr, codes.DataLoss},
		{"query failed", fmt.Errorf("%w: search: syntax", store.ErrQueryFailed), codes.Internal},
		{"canceled", fmt.Errorf("%w: fetch: %w", store.ErrStoreUnavailable, context.Canceled), codes.Canceled},
		{"passthrough", grpcstatus.Error(codes.ResourceExhausted, "slow down"), codes.ResourceExhausted},
		{"unknown", errors.New("boom"), codes.Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := grpcstatus.Code(toStatus("op", tt.err)); got != tt.want {
				t.Errorf("code = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearchLimiter(t *testing.T) {
	lim := SearchLimiter(0.001, 1)
	ok := func(context.Context, any) (any, error) { return "ok", nil }
	search := &grpc.UnaryServerInfo{FullMethod: vaultv1.ArchiveService_Search_FullMethodName}
	list := &grpc.UnaryServerInfo{FullMethod: vaultv1.ArchiveService_ListChannels_FullMethodName}
	ctx := context.Background()

	if _, err := lim(ctx, nil, search, ok); err != nil {
		t.Fatalf("first search: %v", err)
	}
	if _, err := lim(ctx, nil, search, ok); grpcstatus.Code(err) != codes.ResourceExhausted {
		t.Fatalf("second search: %v, want ResourceExhausted", err)
	}
	for range 3 {
		if _, err := lim(ctx, nil, list, ok); err != nil {
			t.Fatalf("list: %v", err)
		}
	}

	off := SearchLimiter(0, 0)
	for range 5 {
		if _, err := off(ctx, nil, search, ok); err != nil {
			t.Fatalf("disabled limiter rejected: %v", err)
		}
	}
}

func TestLoggingInterceptorRequestID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	icpt := LoggingInterceptor(zap.New(core))
	info := &grpc.UnaryServerInfo{FullMethod: vaultv1.ArchiveService_GetUser_FullMethodName}

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDKey, "req-1"))
	_, _ = icpt(ctx, nil, info, func(context.Context, any) (any, error) { return nil, nil })

	ctx = context.Background()
	_, _ = icpt(ctx, nil, info, func(context.Context, any) (any, error) {
		return nil, grpcstatus.Error(codes.Unavailable, "down")
	})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2", len(entries))
	}
	if id := entries[0].ContextMap()["request_id"]; id != "req-1" {
		t.Errorf("request_id = %v, want req-1", id)
	}
	if entries[0].Level != zap.DebugLevel {
		t.Errorf("ok call logged at %v", entries[0].Level)
	}
	if id, _ := entries[1].ContextMap()["request_id"].(string); id == "" {
		t.Error("generated request id missing")
	}
	if entries[1].Level != zap.WarnLevel {
		t.Errorf("failed call logged at %v, want warn", entries[1].Level)
	}
}
