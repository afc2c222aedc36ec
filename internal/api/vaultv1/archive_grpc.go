package vaultv1

import (
	"context"

	"google.golang.org/grpc"
)

const (
	ArchiveService_ListChannels_FullMethodName   = "/slackvault.v1.ArchiveService/ListChannels"
	ArchiveService_GetChannelInfo_FullMethodName = "/slackvault.v1.ArchiveService/GetChannelInfo"
	ArchiveService_GetUser_FullMethodName        = "/slackvault.v1.ArchiveService/GetUser"
	ArchiveService_FetchPage_FullMethodName      = "/slackvault.v1.ArchiveService/FetchPage"
	ArchiveService_FetchReplies_FullMethodName   = "/slackvault.v1.ArchiveService/FetchReplies"
	ArchiveService_Search_FullMethodName         = "/slackvault.v1.ArchiveService/Search"
)

// ArchiveServiceServer is the server API for ArchiveService.
type ArchiveServiceServer interface {
	ListChannels(context.Context, *ListChannelsRequest) (*ListChannelsResponse, error)
	GetChannelInfo(context.Context, *GetChannelInfoRequest) (*GetChannelInfoResponse, error)
	GetUser(context.Context, *GetUserRequest) (*GetUserResponse, error)
	FetchPage(context.Context, *FetchPageRequest) (*FetchPageResponse, error)
	FetchReplies(context.Context, *FetchRepliesRequest) (*FetchRepliesResponse, error)
	Search(context.Context, *SearchRequest) (*SearchResponse, error)
}

// RegisterArchiveServiceServer registers srv on s.
func RegisterArchiveServiceServer(s grpc.ServiceRegistrar, srv ArchiveServiceServer) {
	s.RegisterService(&ArchiveService_ServiceDesc, srv)
}

var ArchiveService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "slackvault.v1.ArchiveService",
	HandlerType: (*ArchiveServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListChannels",
			Handler:    unary(ArchiveService_ListChannels_FullMethodName, ArchiveServiceServer.ListChannels),
		},
		{
			MethodName: "GetChannelInfo",
			Handler:    unary(ArchiveService_GetChannelInfo_FullMethodName, ArchiveServiceServer.GetChannelInfo),
		},
		{
			MethodName: "GetUser",
			Handler:    unary(ArchiveService_GetUser_FullMethodName, ArchiveServiceServer.GetUser),
		},
		{
			MethodName: "FetchPage",
			Handler:    unary(ArchiveService_FetchPage_FullMethodName, ArchiveServiceServer.FetchPage),
		},
		{
			MethodName: "FetchReplies",
			Handler:    unary(ArchiveService_FetchReplies_FullMethodName, ArchiveServiceServer.FetchReplies),
		},
		{
			MethodName: "Search",
			Handler:    unary(ArchiveService_Search_FullMethodName, ArchiveServiceServer.Search),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "slackvault/v1/archive",
}

// ArchiveServiceClient is the client API for ArchiveService.
type ArchiveServiceClient interface {
	ListChannels(ctx context.Context, in *ListChannelsRequest, opts ...grpc.CallOption) (*ListChannelsResponse, error)
	GetChannelInfo(ctx context.Context, in *GetChannelInfoRequest, opts ...grpc.CallOption) (*GetChannelInfoResponse, error)
	GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*GetUserResponse, error)
	FetchPage(ctx context.Context, in *FetchPageRequest, opts ...grpc.CallOption) (*FetchPageResponse, error)
	FetchReplies(ctx context.Context, in *FetchRepliesRequest, opts ...grpc.CallOption) (*FetchRepliesResponse, error)
	Search(ctx context.Context, in *SearchRequest, opts ...grpc.CallOption) (*SearchResponse, error)
}

type archiveServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewArchiveServiceClient(cc grpc.ClientConnInterface) ArchiveServiceClient {
	return &archiveServiceClient{cc}
}

func (c *archiveServiceClient) ListChannels(ctx context.Context, in *ListChannelsRequest, opts ...grpc.CallOption) (*ListChannelsResponse, error) {
	return invoke[ListChannelsResponse](ctx, c.cc, ArchiveService_ListChannels_FullMethodName, in, opts)
}

func (c *archiveServiceClient) GetChannelInfo(ctx context.Context, in *GetChannelInfoRequest, opts ...grpc.CallOption) (*GetChannelInfoResponse, error) {
	return invoke[GetChannelInfoResponse](ctx, c.cc, ArchiveService_GetChannelInfo_FullMethodName, in, opts)
}

func (c *archiveServiceClient) GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*GetUserResponse, error) {
	return invoke[GetUserResponse](ctx, c.cc, ArchiveService_GetUser_FullMethodName, in, opts)
}

func (c *archiveServiceClient) FetchPage(ctx context.Context, in *FetchPageRequest, opts ...grpc.CallOption) (*FetchPageResponse, error) {
	return invoke[FetchPageResponse](ctx, c.cc, ArchiveService_FetchPage_FullMethodName, in, opts)
}

func (c *archiveServiceClient) FetchReplies(ctx context.Context, in *FetchRepliesRequest, opts ...grpc.CallOption) (*FetchRepliesResponse, error) {
	return invoke[FetchRepliesResponse](ctx, c.cc, ArchiveService_FetchReplies_FullMethodName, in, opts)
}

func (c *archiveServiceClient) Search(ctx context.Context, in *SearchRequest, opts ...grpc.CallOption) (*SearchResponse, error) {
	return invoke[SearchResponse](ctx, c.cc, ArchiveService_Search_FullMethodName, in, opts)
}
