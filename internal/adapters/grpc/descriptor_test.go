package grpc

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/reflection/grpc_reflection_v1"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/quentinrf/plant-monitor/services/color-service/internal/adapters/memory"
	"github.com/quentinrf/plant-monitor/services/color-service/internal/adapters/mock"
	"github.com/quentinrf/plant-monitor/services/color-service/internal/adapters/veml6040"
)

func TestServiceDescriptor_MatchesServiceDesc(t *testing.T) {
	d, err := protoregistry.GlobalFiles.FindDescriptorByName(ServiceName)
	if err != nil {
		t.Fatalf("service not registered: %v", err)
	}
	sd, ok := d.(protoreflect.ServiceDescriptor)
	if !ok {
		t.Fatalf("expected a service descriptor, got %T", d)
	}
	if sd.ParentFile() != lightServiceFile {
		t.Error("registered service does not come from the built descriptor")
	}
	if got := sd.ParentFile().Path(); got != LightServiceDesc.Metadata {
		t.Errorf("descriptor file %q does not match ServiceDesc metadata %v", got, LightServiceDesc.Metadata)
	}

	if sd.Methods().Len() != len(LightServiceDesc.Methods) {
		t.Fatalf("expected %d methods, got %d", len(LightServiceDesc.Methods), sd.Methods().Len())
	}
	for _, m := range LightServiceDesc.Methods {
		if sd.Methods().ByName(protoreflect.Name(m.MethodName)) == nil {
			t.Errorf("method %s missing from descriptor", m.MethodName)
		}
	}

	tests := []struct {
		method protoreflect.Name
		input  protoreflect.FullName
		output protoreflect.FullName
	}{
		{"GetCurrentLight", "google.protobuf.Empty", "google.protobuf.Struct"},
		{"GetHistory", "google.protobuf.Struct", "google.protobuf.Struct"},
		{"RecordReading", "google.protobuf.Struct", "google.protobuf.Struct"},
		{"ReadColor", "google.protobuf.Empty", "google.protobuf.Struct"},
	}
	for _, tt := range tests {
		m := sd.Methods().ByName(tt.method)
		if m == nil {
			continue
		}
		if m.Input().FullName() != tt.input || m.Output().FullName() != tt.output {
			t.Errorf("%s: expected %s -> %s, got %s -> %s",
				tt.method, tt.input, tt.output, m.Input().FullName(), m.Output().FullName())
		}
	}
}

func TestReflection_DescribesService(t *testing.T) {
	dev := veml6040.New(mock.NewFakeBus(500, 0))
	handler := NewLightServiceHandler(memory.NewReadingRepository(), veml6040.NewSensor(dev))

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	srv := grpc.NewServer()
	RegisterLightServiceServer(srv, handler)
	reflection.Register(srv)
	go srv.Serve(lis)
	t.Cleanup(srv.GracefulStop)

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	stream, err := grpc_reflection_v1.NewServerReflectionClient(conn).ServerReflectionInfo(context.Background())
	if err != nil {
		t.Fatalf("failed to open reflection stream: %v", err)
	}
	defer stream.CloseSend()

	err = stream.Send(&grpc_reflection_v1.ServerReflectionRequest{
		MessageRequest: &grpc_reflection_v1.ServerReflectionRequest_FileContainingSymbol{
			FileContainingSymbol: ServiceName,
		},
	})
	if err != nil {
		t.Fatalf("failed to send reflection request: %v", err)
	}
	resp, err := stream.Recv()
	if err != nil {
		t.Fatalf("failed to receive reflection response: %v", err)
	}
	if e := resp.GetErrorResponse(); e != nil {
		t.Fatalf("reflection error %d: %s", e.GetErrorCode(), e.GetErrorMessage())
	}

	var found bool
	for _, raw := range resp.GetFileDescriptorResponse().GetFileDescriptorProto() {
		var fdp descriptorpb.FileDescriptorProto
		if err := proto.Unmarshal(raw, &fdp); err != nil {
			t.Fatalf("bad descriptor bytes: %v", err)
		}
		if fdp.GetName() != ProtoFile {
			continue
		}
		found = true
		if len(fdp.GetService()) != 1 || len(fdp.GetService()[0].GetMethod()) != 4 {
			t.Errorf("expected one service with 4 methods, got %v", fdp.GetService())
		}
	}
	if !found {
		t.Errorf("reflection did not return %s", ProtoFile)
	}
}
