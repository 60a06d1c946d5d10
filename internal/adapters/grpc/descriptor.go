package grpc

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// ProtoFile is the registered path of the LightService descriptor
const ProtoFile = "plantmonitor/color/v1/light_service.proto"

// lightServiceFile describes LightService. It is registered with
// protoregistry.GlobalFiles so server reflection can describe and invoke it.
var lightServiceFile protoreflect.FileDescriptor

func init() {
	fd, err := protodesc.NewFile(lightServiceProto(), protoregistry.GlobalFiles)
	if err != nil {
		panic(fmt.Sprintf("build %s: %v", ProtoFile, err))
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(fmt.Sprintf("register %s: %v", ProtoFile, err))
	}
	lightServiceFile = fd
}

func lightServiceProto() *descriptorpb.FileDescriptorProto {
	const (
		empty  = ".google.protobuf.Empty"
		object = ".google.protobuf.Struct"
	)
	method := func(name, in, out string) *descriptorpb.MethodDescriptorProto {
		return &descriptorpb.MethodDescriptorProto{
			Name:       proto.String(name),
			InputType:  proto.String(in),
			OutputType: proto.String(out),
		}
	}

	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String(ProtoFile),
		Package: proto.String("plantmonitor.color.v1"),
		Dependency: []string{
			"google/protobuf/empty.proto",
			"google/protobuf/struct.proto",
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("LightService"),
			Method: []*descriptorpb.MethodDescriptorProto{
				method("GetCurrentLight", empty, object),
				method("GetHistory", object, object),
				method("RecordReading", object, object),
				method("ReadColor", empty, object),
			},
		}},
		Syntax: proto.String("proto3"),
	}
}
