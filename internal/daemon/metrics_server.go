package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/matheus3301/slackvault/internal/metrics"
	"go.uber.org/zap"
)

// MetricsServer exposes /metrics over HTTP. It is inert when no address is
// configured.
type MetricsServer struct {
	srv    *http.Server
	ln     net.Listener
	logger *zap.Logger
}

// NewMetricsServer binds the configured metrics address, if any.
func NewMetricsServer(p Params, m *metrics.Metrics, logger *zap.Logger) (*MetricsServer, error) {
	s := &MetricsServer{logger: logger}
	if p.Config == nil || p.Config.Metrics.Addr == "" {
		return s, nil
	}
	ln, err := net.Listen("tcp", p.Config.Metrics.Addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	s.ln = ln
	s.srv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	return s, nil
}

// Addr returns the bound address, or "" when disabled.
func (s *MetricsServer) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Start serves in the background.
func (s *MetricsServer) Start() {
	if s.srv == nil {
		return
	}
	s.logger.Info("metrics listener starting", zap.String("addr", s.Addr()))
	go func() {
		if err := s.srv.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics listener error", zap.Error(err))
		}
	}()
}

// Stop shuts the listener down.
func (s *MetricsServer) Stop(ctx context.Context) {
	if s.srv == nil {
		return
	}
	_ = s.srv.Shutdown(ctx)
}
