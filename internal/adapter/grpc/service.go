package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name
const ServiceName = "bondtracker.v1.WidgetTimelineService"

// Full method names, as seen by interceptors and clients
const (
	PlaceholderMethod = "/" + ServiceName + "/Placeholder"
	SnapshotMethod    = "/" + ServiceName + "/Snapshot"
	TimelineMethod    = "/" + ServiceName + "/Timeline"
)

// WidgetTimelineServer is the server API for WidgetTimelineService.
// Requests carry no fields; responses are structpb documents built by
// EntryToStruct and TimelineToStruct.
type WidgetTimelineServer interface {
	Placeholder(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Snapshot(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Timeline(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// RegisterWidgetTimelineServer registers srv on s
func RegisterWidgetTimelineServer(s grpc.ServiceRegistrar, srv WidgetTimelineServer) {
	s.RegisterService(&widgetTimelineServiceDesc, srv)
}

var widgetTimelineServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*WidgetTimelineServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Placeholder",
			Handler:    unaryHandler(PlaceholderMethod, WidgetTimelineServer.Placeholder),
		},
		{
			MethodName: "Snapshot",
			Handler:    unaryHandler(SnapshotMethod, WidgetTimelineServer.Snapshot),
		},
		{
			MethodName: "Timeline",
			Handler:    unaryHandler(TimelineMethod, WidgetTimelineServer.Timeline),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bondtracker/v1/widget.proto",
}

type unaryMethod func(WidgetTimelineServer, context.Context, *emptypb.Empty) (*structpb.Struct, error)

// unaryHandler adapts a server method to grpc.MethodDesc, running it through
// the configured interceptor chain
func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(emptypb.Empty)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(WidgetTimelineServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(WidgetTimelineServer), ctx, req.(*emptypb.Empty))
		}
		return interceptor(ctx, in, info, handler)
	}
}
