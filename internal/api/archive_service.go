package api

import (
	"context"

	"github.com/matheus3301/slackvault/internal/api/vaultv1"
	"github.com/matheus3301/slackvault/internal/archive"
	"github.com/matheus3301/slackvault/internal/store/query"
	"github.com/matheus3301/slackvault/internal/timestamp"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
)

// ArchiveService implements the ArchiveService gRPC service.
type ArchiveService struct {
	svc *archive.Service
}

// NewArchiveService creates an archive service backed by svc.
func NewArchiveService(svc *archive.Service) *ArchiveService {
	return &ArchiveService{svc: svc}
}

func (s *ArchiveService) ListChannels(ctx context.Context, _ *vaultv1.ListChannelsRequest) (*vaultv1.ListChannelsResponse, error) {
	channels, err := s.svc.ListChannels(ctx)
	if err != nil {
		return nil, toStatus("list channels", err)
	}
	resp := &vaultv1.ListChannelsResponse{Channels: make([]*vaultv1.Channel, 0, len(channels))}
	for i := range channels {
		resp.Channels = append(resp.Channels, channelToWire(&channels[i]))
	}
	return resp, nil
}

func (s *ArchiveService) GetChannelInfo(ctx context.Context, req *vaultv1.GetChannelInfoRequest) (*vaultv1.GetChannelInfoResponse, error) {
	if req.Name == "" {
		return nil, grpcstatus.Error(codes.InvalidArgument, "name is required")
	}
	c, err := s.svc.GetChannelInfo(ctx, req.Name)
	if err != nil {
		return nil, toStatus("get channel", err)
	}
	return &vaultv1.GetChannelInfoResponse{Channel: channelToWire(c)}, nil
}

func (s *ArchiveService) GetUser(ctx context.Context, req *vaultv1.GetUserRequest) (*vaultv1.GetUserResponse, error) {
	if req.ID == "" {
		return nil, grpcstatus.Error(codes.InvalidArgument, "id is required")
	}
	u, err := s.svc.GetUser(ctx, req.ID)
	if err != nil {
		return nil, toStatus("get user", err)
	}
	return &vaultv1.GetUserResponse{User: userToWire(u)}, nil
}

func (s *ArchiveService) FetchPage(ctx context.Context, req *vaultv1.FetchPageRequest) (*vaultv1.FetchPageResponse, error) {
	if req.Channel == "" {
		return nil, grpcstatus.Error(codes.InvalidArgument, "channel is required")
	}
	page, err := s.svc.FetchPage(ctx, req.Channel, req.Cursor, int(req.PageSize))
	if err != nil {
		return nil, toStatus("fetch page", err)
	}

	resp := &vaultv1.FetchPageResponse{
		Channel:    channelToWire(&page.Channel),
		Messages:   make([]*vaultv1.ParentMessage, 0, len(page.Messages)),
		NextCursor: page.NextCursor,
		Since:      timestamp.Canonical(page.Since),
	}
	for i := range page.Messages {
		pm := &page.Messages[i]
		resp.Messages = append(resp.Messages, &vaultv1.ParentMessage{
			Message:    messageToWire(&pm.Message, &pm.User, req.HumanTimes),
			ReplyCount: int32(pm.ReplyCount),
		})
	}
	return resp, nil
}

func (s *ArchiveService) FetchReplies(ctx context.Context, req *vaultv1.FetchRepliesRequest) (*vaultv1.FetchRepliesResponse, error) {
	if req.ChannelID == "" || req.ParentTs == "" {
		return nil, grpcstatus.Error(codes.InvalidArgument, "channel_id and parent_ts are required")
	}
	replies, err := s.svc.FetchReplies(ctx, req.ChannelID, req.ParentTs, req.ParentUserID)
	if err != nil {
		return nil, toStatus("fetch replies", err)
	}
	resp := &vaultv1.FetchRepliesResponse{Replies: make([]*vaultv1.Message, 0, len(replies))}
	for i := range replies {
		resp.Replies = append(resp.Replies, messageToWire(&replies[i].Message, &replies[i].User, req.HumanTimes))
	}
	return resp, nil
}

func (s *ArchiveService) Search(ctx context.Context, req *vaultv1.SearchRequest) (*vaultv1.SearchResponse, error) {
	results, err := s.svc.Search(ctx, req.Query, req.ChannelID, req.UserID, int(req.Limit))
	if err != nil {
		return nil, toStatus("search", err)
	}
	resp := &vaultv1.SearchResponse{
		Results: make([]*vaultv1.SearchResult, 0, len(results)),
		Mode:    query.Mode(req.ChannelID, req.UserID),
	}
	for i := range results {
		r := &results[i]
		resp.Results = append(resp.Results, &vaultv1.SearchResult{
			Message: messageToWire(&r.Message, &r.User, req.HumanTimes),
			Rank:    r.Rank,
		})
	}
	return resp, nil
}

var _ vaultv1.ArchiveServiceServer = (*ArchiveService)(nil)
