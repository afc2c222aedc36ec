package api

import (
	"context"

	"github.com/matheus3301/slackvault/internal/api/vaultv1"
	"github.com/matheus3301/slackvault/internal/archive"
	"github.com/matheus3301/slackvault/internal/bus"
	"github.com/matheus3301/slackvault/internal/status"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// StatusService implements the StatusService gRPC service.
type StatusService struct {
	profile string
	machine *status.Machine
	svc     *archive.Service
	bus     *bus.Bus
	log     *zap.Logger
}

// NewStatusService creates a status service for profile.
func NewStatusService(profile string, machine *status.Machine, svc *archive.Service, b *bus.Bus, log *zap.Logger) *StatusService {
	return &StatusService{profile: profile, machine: machine, svc: svc, bus: b, log: log}
}

func (s *StatusService) GetStatus(ctx context.Context, _ *vaultv1.GetStatusRequest) (*vaultv1.GetStatusResponse, error) {
	snap := s.machine.Snapshot()
	resp := &vaultv1.GetStatusResponse{
		Profile:          s.profile,
		State:            string(snap.State),
		Reason:           snap.Reason,
		Backend:          s.svc.Backend(),
		UptimeMs:         s.machine.Uptime().Milliseconds(),
		StateSinceUnixMs: snap.Since.UnixMilli(),
	}

	// Counts are best effort; a degraded store still reports its state.
	if snap.State.Serving() {
		st, err := s.svc.Stats(ctx)
		if err != nil {
			s.log.Debug("status counts unavailable", zap.Error(err))
			return resp, nil
		}
		resp.Channels = st.Channels
		resp.Users = st.Users
		resp.TopLevelMessages = st.TopLevel
		resp.Replies = st.Replies
		resp.NewestMessageTs = canonicalOrEmpty(st.NewestMessage)
	}
	return resp, nil
}

func (s *StatusService) WatchStatus(_ *vaultv1.WatchStatusRequest, stream grpc.ServerStreamingServer[vaultv1.StatusEvent]) error {
	ch, unsub := s.bus.Subscribe("daemon.", 16)
	defer unsub()

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-ch:
			if !ok {
				return nil
			}
			out := &vaultv1.StatusEvent{
				EventID:          evt.ID,
				Kind:             evt.Kind,
				OccurredAtUnixMs: evt.Timestamp.UnixMilli(),
			}
			if sc, ok := evt.Payload.(status.StatusChange); ok {
				out.From = string(sc.From)
				out.To = string(sc.To)
				out.Reason = sc.Reason
			}
			if err := stream.Send(out); err != nil {
				return err
			}
		}
	}
}

var _ vaultv1.StatusServiceServer = (*StatusService)(nil)
