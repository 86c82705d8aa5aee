// Package rpc declares the kodex.v1.History gRPC service.
//
// The service is described by hand over protobuf well-known types, so no
// generated code is needed: requests and responses are emptypb.Empty,
// wrapperspb.StringValue or structpb.Struct, and the record list travels as
// a Struct with a "records" list. See records.go for the field layout.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "kodex.v1.History"

// Full method names, as seen by interceptors.
const (
	MethodPing    = "/" + ServiceName + "/Ping"
	MethodPush    = "/" + ServiceName + "/Push"
	MethodList    = "/" + ServiceName + "/List"
	MethodPublish = "/" + ServiceName + "/Publish"
)

// HistoryServer is implemented by the sync server.
type HistoryServer interface {
	Ping(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	// Push upserts the caller's records; tombstones delete.
	Push(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// List returns the caller's live records, newest first.
	List(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	// Publish returns presigned URLs for a record's shared image.
	Publish(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// RegisterHistoryServer attaches srv to s.
func RegisterHistoryServer(s grpc.ServiceRegistrar, srv HistoryServer) {
	s.RegisterService(&HistoryServiceDesc, srv)
}

var HistoryServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*HistoryServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Ping",
			Handler: unary(MethodPing, func() proto.Message { return new(emptypb.Empty) },
				func(s HistoryServer, ctx context.Context, in proto.Message) (proto.Message, error) {
					return s.Ping(ctx, in.(*emptypb.Empty))
				}),
		},
		{
			MethodName: "Push",
			Handler: unary(MethodPush, func() proto.Message { return new(structpb.Struct) },
				func(s HistoryServer, ctx context.Context, in proto.Message) (proto.Message, error) {
					return s.Push(ctx, in.(*structpb.Struct))
				}),
		},
		{
			MethodName: "List",
			Handler: unary(MethodList, func() proto.Message { return new(emptypb.Empty) },
				func(s HistoryServer, ctx context.Context, in proto.Message) (proto.Message, error) {
					return s.List(ctx, in.(*emptypb.Empty))
				}),
		},
		{
			MethodName: "Publish",
			Handler: unary(MethodPublish, func() proto.Message { return new(wrapperspb.StringValue) },
				func(s HistoryServer, ctx context.Context, in proto.Message) (proto.Message, error) {
					return s.Publish(ctx, in.(*wrapperspb.StringValue))
				}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "kodex/v1/history.proto",
}

type callFunc func(s HistoryServer, ctx context.Context, in proto.Message) (proto.Message, error)

func unary(fullMethod string, newReq func() proto.Message, call callFunc) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(HistoryServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(HistoryServer), ctx, req.(proto.Message))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// HistoryClient is the client side of the service.
type HistoryClient interface {
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
	Push(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	List(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	Publish(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type historyClient struct {
	cc grpc.ClientConnInterface
}

func NewHistoryClient(cc grpc.ClientConnInterface) HistoryClient {
	return &historyClient{cc: cc}
}

func (c *historyClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, MethodPing, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *historyClient) Push(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodPush, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *historyClient) List(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodList, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *historyClient) Publish(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodPublish, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
