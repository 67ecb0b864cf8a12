package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	AvailabilityServiceName = "calspots.v1.AvailabilityService"

	getAvailableSpotsMethod = "/" + AvailabilityServiceName + "/GetAvailableSpots"
	listCalendarsMethod     = "/" + AvailabilityServiceName + "/ListCalendars"
)

// AvailabilityServiceServer is the server API of calspots.v1.AvailabilityService.
// Requests and responses are google.protobuf.Struct messages.
type AvailabilityServiceServer interface {
	GetAvailableSpots(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListCalendars(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var AvailabilityServiceDesc = grpc.ServiceDesc{
	ServiceName: AvailabilityServiceName,
	HandlerType: (*AvailabilityServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetAvailableSpots",
			Handler:    getAvailableSpotsHandler,
		},
		{
			MethodName: "ListCalendars",
			Handler:    listCalendarsHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "calspots/v1/availability.proto",
}

func RegisterAvailabilityServiceServer(s grpc.ServiceRegistrar, srv AvailabilityServiceServer) {
	s.RegisterService(&AvailabilityServiceDesc, srv)
}

func getAvailableSpotsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AvailabilityServiceServer).GetAvailableSpots(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getAvailableSpotsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AvailabilityServiceServer).GetAvailableSpots(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func listCalendarsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AvailabilityServiceServer).ListCalendars(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listCalendarsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AvailabilityServiceServer).ListCalendars(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// AvailabilityClient calls calspots.v1.AvailabilityService.
type AvailabilityClient struct {
	cc grpc.ClientConnInterface
}

func NewAvailabilityClient(cc grpc.ClientConnInterface) *AvailabilityClient {
	return &AvailabilityClient{cc: cc}
}

func (c *AvailabilityClient) GetAvailableSpots(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getAvailableSpotsMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AvailabilityClient) ListCalendars(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, listCalendarsMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
