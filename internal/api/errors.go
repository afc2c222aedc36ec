package api

import (
	"context"
	"errors"

	"github.com/matheus3301/slackvault/internal/store"
	"github.com/matheus3301/slackvault/internal/timestamp"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
)

// toStatus maps a read-path error onto a gRPC status.
func toStatus(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := grpcstatus.FromError(err); ok {
		return err
	}

	var tsErr *timestamp.Error
	code := codes.Unknown
	switch {
	case errors.Is(err, store.ErrNotFound):
		code = codes.NotFound
	case errors.As(err, &tsErr) && tsErr.Source == timestamp.SourceStored:
		code = codes.DataLoss
	case errors.As(err, &tsErr):
		code = codes.InvalidArgument
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	case errors.Is(err, store.ErrStoreUnavailable):
		code = codes.Unavailable
	case errors.Is(err, store.ErrQueryFailed):
		code = codes.Internal
	}
	return grpcstatus.Errorf(code, "%s: %v", op, err)
}
