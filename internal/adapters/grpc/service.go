package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
// Messages are protobuf well-known types so no generated code is needed:
// requests without parameters are Empty, everything else is a Struct.
// The matching file descriptor is built in descriptor.go.
const ServiceName = "plantmonitor.color.v1.LightService"

const (
	methodGetCurrentLight = "/" + ServiceName + "/GetCurrentLight"
	methodGetHistory      = "/" + ServiceName + "/GetHistory"
	methodRecordReading   = "/" + ServiceName + "/RecordReading"
	methodReadColor       = "/" + ServiceName + "/ReadColor"
)

// LightServiceServer is the server API for LightService
type LightServiceServer interface {
	// GetCurrentLight returns the latest stored reading
	GetCurrentLight(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	// GetHistory takes {start_time, end_time} in Unix seconds
	GetHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// RecordReading takes {lux}
	RecordReading(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// ReadColor samples the sensor now without storing the result
	ReadColor(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// RegisterLightServiceServer registers srv on s
func RegisterLightServiceServer(s grpc.ServiceRegistrar, srv LightServiceServer) {
	s.RegisterService(&LightServiceDesc, srv)
}

// LightServiceDesc describes LightService for grpc.Server
var LightServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LightServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetCurrentLight", Handler: getCurrentLightHandler},
		{MethodName: "GetHistory", Handler: getHistoryHandler},
		{MethodName: "RecordReading", Handler: recordReadingHandler},
		{MethodName: "ReadColor", Handler: readColorHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: ProtoFile,
}

func getCurrentLightHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LightServiceServer).GetCurrentLight(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetCurrentLight}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(LightServiceServer).GetCurrentLight(ctx, req.(*emptypb.Empty))
	})
}

func getHistoryHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LightServiceServer).GetHistory(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetHistory}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(LightServiceServer).GetHistory(ctx, req.(*structpb.Struct))
	})
}

func recordReadingHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LightServiceServer).RecordReading(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodRecordReading}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(LightServiceServer).RecordReading(ctx, req.(*structpb.Struct))
	})
}

func readColorHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LightServiceServer).ReadColor(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodReadColor}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(LightServiceServer).ReadColor(ctx, req.(*emptypb.Empty))
	})
}

// LightServiceClient is the client API for LightService
type LightServiceClient interface {
	GetCurrentLight(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetHistory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	RecordReading(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ReadColor(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type lightServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewLightServiceClient returns a client on cc
func NewLightServiceClient(cc grpc.ClientConnInterface) LightServiceClient {
	return &lightServiceClient{cc}
}

func (c *lightServiceClient) GetCurrentLight(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodGetCurrentLight, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *lightServiceClient) GetHistory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodGetHistory, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *lightServiceClient) RecordReading(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodRecordReading, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *lightServiceClient) ReadColor(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodReadColor, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
