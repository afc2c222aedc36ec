package daemon

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/matheus3301/slackvault/internal/api"
	"github.com/matheus3301/slackvault/internal/api/vaultv1"
	"github.com/matheus3301/slackvault/internal/profile"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// Server manages the gRPC server lifecycle for a profile daemon.
type Server struct {
	grpcServer *grpc.Server
	listener   net.Listener
	socketPath string
	logger     *zap.Logger
}

// NewServer creates a gRPC server bound to the profile's Unix domain socket.
func NewServer(
	p Params,
	logger *zap.Logger,
	archiveSvc *api.ArchiveService,
	statusSvc *api.StatusService,
) (*Server, error) {
	socketPath := p.SocketPath
	if socketPath == "" {
		socketPath = profile.SocketPath(p.Profile)
	}

	// Clean stale socket if it exists.
	if _, err := os.Stat(socketPath); err == nil {
		_ = os.Remove(socketPath)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("listen unix socket: %w", err)
	}

	if err := os.Chmod(socketPath, 0600); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("chmod socket: %w", err)
	}

	var rate float64
	var burst int
	if p.Config != nil {
		rate, burst = p.Config.Search.Rate, p.Config.Search.Burst
	}
	rpcLog := logger.Named("rpc")
	srv := grpc.NewServer(
		grpc.ForceServerCodecV2(vaultv1.Codec{}),
		grpc.ChainUnaryInterceptor(
			api.LoggingInterceptor(rpcLog),
			api.SearchLimiter(rate, burst),
		),
		grpc.ChainStreamInterceptor(api.StreamLoggingInterceptor(rpcLog)),
	)
	vaultv1.RegisterArchiveServiceServer(srv, archiveSvc)
	vaultv1.RegisterStatusServiceServer(srv, statusSvc)

	return &Server{
		grpcServer: srv,
		listener:   listener,
		socketPath: socketPath,
		logger:     logger,
	}, nil
}

// Start begins serving gRPC requests. Blocks until stopped.
func (s *Server) Start() error {
	s.logger.Info("gRPC server starting", zap.String("socket", s.socketPath))
	return s.grpcServer.Serve(s.listener)
}

// Stop performs a graceful shutdown and removes the socket file.
func (s *Server) Stop(_ context.Context) {
	s.logger.Info("gRPC server stopping")
	s.grpcServer.GracefulStop()
	_ = os.Remove(s.socketPath)
}
