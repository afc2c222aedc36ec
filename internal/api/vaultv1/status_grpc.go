package vaultv1

import (
	"context"

	"google.golang.org/grpc"
)

const (
	StatusService_GetStatus_FullMethodName   = "/slackvault.v1.StatusService/GetStatus"
	StatusService_WatchStatus_FullMethodName = "/slackvault.v1.StatusService/WatchStatus"
)

// StatusServiceServer is the server API for StatusService.
type StatusServiceServer interface {
	GetStatus(context.Context, *GetStatusRequest) (*GetStatusResponse, error)
	WatchStatus(*WatchStatusRequest, grpc.ServerStreamingServer[StatusEvent]) error
}

// RegisterStatusServiceServer registers srv on s.
func RegisterStatusServiceServer(s grpc.ServiceRegistrar, srv StatusServiceServer) {
	s.RegisterService(&StatusService_ServiceDesc, srv)
}

func _StatusService_WatchStatus_Handler(srv any, stream grpc.ServerStream) error {
	m := new(WatchStatusRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(StatusServiceServer).WatchStatus(m, &grpc.GenericServerStream[WatchStatusRequest, StatusEvent]{ServerStream: stream})
}

var StatusService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "slackvault.v1.StatusService",
	HandlerType: (*StatusServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetStatus",
			Handler:    unary(StatusService_GetStatus_FullMethodName, StatusServiceServer.GetStatus),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchStatus",
			Handler:       _StatusService_WatchStatus_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "slackvault/v1/status",
}

// StatusServiceClient is the client API for StatusService.
type StatusServiceClient interface {
	GetStatus(ctx context.Context, in *GetStatusRequest, opts ...grpc.CallOption) (*GetStatusResponse, error)
	WatchStatus(ctx context.Context, in *WatchStatusRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[StatusEvent], error)
}

type statusServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewStatusServiceClient(cc grpc.ClientConnInterface) StatusServiceClient {
	return &statusServiceClient{cc}
}

func (c *statusServiceClient) GetStatus(ctx context.Context, in *GetStatusRequest, opts ...grpc.CallOption) (*GetStatusResponse, error) {
	return invoke[GetStatusResponse](ctx, c.cc, StatusService_GetStatus_FullMethodName, in, opts)
}

func (c *statusServiceClient) WatchStatus(ctx context.Context, in *WatchStatusRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[StatusEvent], error) {
	stream, err := c.cc.NewStream(ctx, &StatusService_ServiceDesc.Streams[0], StatusService_WatchStatus_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[WatchStatusRequest, StatusEvent]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
