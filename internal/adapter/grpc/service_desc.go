package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "assetval.v1.ValuationService"

// Full method names
const (
	MethodValueAsset       = "/" + ServiceName + "/ValueAsset"
	MethodValuePortfolio   = "/" + ServiceName + "/ValuePortfolio"
	MethodGenerateSchedule = "/" + ServiceName + "/GenerateSchedule"
)

// ValuationServiceServer is the server API for the ValuationService
// Requests and responses are google.protobuf.Struct messages
type ValuationServiceServer interface {
	ValueAsset(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ValuePortfolio(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GenerateSchedule(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterValuationServiceServer registers the service implementation on a gRPC server
func RegisterValuationServiceServer(s grpc.ServiceRegistrar, srv ValuationServiceServer) {
	s.RegisterService(&ValuationServiceDesc, srv)
}

// ValuationServiceDesc describes the ValuationService for grpc.Server.RegisterService
var ValuationServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ValuationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ValueAsset",
			Handler:    unaryHandler(MethodValueAsset, ValuationServiceServer.ValueAsset),
		},
		{
			MethodName: "ValuePortfolio",
			Handler:    unaryHandler(MethodValuePortfolio, ValuationServiceServer.ValuePortfolio),
		},
		{
			MethodName: "GenerateSchedule",
			Handler:    unaryHandler(MethodGenerateSchedule, ValuationServiceServer.GenerateSchedule),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "assetval/v1/valuation.proto",
}

type unaryMethod func(ValuationServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// unaryHandler adapts a server method to the grpc.MethodDesc handler signature
func unaryHandler(fullMethod string, call unaryMethod) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ValuationServiceServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(ValuationServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ValuationServiceClient is the client API for the ValuationService
type ValuationServiceClient interface {
	ValueAsset(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ValuePortfolio(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GenerateSchedule(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type valuationServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewValuationServiceClient creates a client bound to the given connection
func NewValuationServiceClient(cc grpc.ClientConnInterface) ValuationServiceClient {
	return &valuationServiceClient{cc: cc}
}

func (c *valuationServiceClient) ValueAsset(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodValueAsset, in, opts...)
}

func (c *valuationServiceClient) ValuePortfolio(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodValuePortfolio, in, opts...)
}

func (c *valuationServiceClient) GenerateSchedule(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGenerateSchedule, in, opts...)
}

func (c *valuationServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
