// Package rpc предоставляет gRPC доступ к расчету показателей и арбитражу.
// Сообщения передаются как google.protobuf.Struct с теми же JSON полями,
// что и HTTP API, поэтому сгенерированный код не нужен.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName полное имя gRPC сервиса
const ServiceName = "railrisk.v1.ParameterService"

// Полные имена методов
const (
	MethodCompute   = "/" + ServiceName + "/Compute"
	MethodDecide    = "/" + ServiceName + "/Decide"
	MethodProximity = "/" + ServiceName + "/Proximity"
)

// ParameterServiceServer серверная часть gRPC сервиса
type ParameterServiceServer interface {
	Compute(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Decide(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Proximity(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

// RegisterParameterServiceServer регистрирует реализацию на gRPC сервере
func RegisterParameterServiceServer(s grpc.ServiceRegistrar, srv ParameterServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type structMethod func(srv ParameterServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call structMethod) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ParameterServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ParameterServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc описание сервиса railrisk.v1.ParameterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ParameterServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Compute",
			Handler: unaryHandler(MethodCompute, func(srv ParameterServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return srv.Compute(ctx, in)
			}),
		},
		{
			MethodName: "Decide",
			Handler: unaryHandler(MethodDecide, func(srv ParameterServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return srv.Decide(ctx, in)
			}),
		},
		{
			MethodName: "Proximity",
			Handler: unaryHandler(MethodProximity, func(srv ParameterServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return srv.Proximity(ctx, in)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "railrisk/v1/parameter_service.proto",
}

// Client клиент gRPC сервиса
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient создает клиента поверх готового соединения
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Compute вызывает полный расчет показателей
func (c *Client) Compute(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodCompute, in, opts...)
}

// Decide вызывает арбитраж двух поездов
func (c *Client) Decide(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodDecide, in, opts...)
}

// Proximity вызывает попарную проверку сближения
func (c *Client) Proximity(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodProximity, in, opts...)
}

func (c *Client) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
