// Package bridge exposes settings normalization, prompt composition, result
// delivery, and section state to the desktop shell over a local gRPC socket.
package bridge

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "translater.bridge.v1.Bridge"

// Method names.
const (
	MethodGetSettings       = "GetSettings"
	MethodSaveSettings      = "SaveSettings"
	MethodNormalizeSettings = "NormalizeSettings"
	MethodComposePrompts    = "ComposePrompts"
	MethodPlanRequest       = "PlanRequest"
	MethodDisplayName       = "DisplayName"
	MethodDeliver           = "Deliver"
	MethodSections          = "Sections"
	MethodToggleSection     = "ToggleSection"
	MethodActivateCategory  = "ActivateCategory"
)

// Server is the bridge service contract. Every message is a Struct so the
// shell can exchange plain records without generated stubs.
type Server interface {
	GetSettings(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SaveSettings(context.Context, *structpb.Struct) (*structpb.Struct, error)
	NormalizeSettings(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ComposePrompts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PlanRequest(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DisplayName(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Deliver(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Sections(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ToggleSection(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ActivateCategory(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(Server, context.Context, *structpb.Struct) (*structpb.Struct, error)

// ServiceDesc registers Server implementations with a grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodGetSettings, Server.GetSettings),
		unary(MethodSaveSettings, Server.SaveSettings),
		unary(MethodNormalizeSettings, Server.NormalizeSettings),
		unary(MethodComposePrompts, Server.ComposePrompts),
		unary(MethodPlanRequest, Server.PlanRequest),
		unary(MethodDisplayName, Server.DisplayName),
		unary(MethodDeliver, Server.Deliver),
		unary(MethodSections, Server.Sections),
		unary(MethodToggleSection, Server.ToggleSection),
		unary(MethodActivateCategory, Server.ActivateCategory),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "translater/bridge/v1/bridge.proto",
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

func unary(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(Server), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(Server), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
