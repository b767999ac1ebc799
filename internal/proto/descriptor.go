// Package proto defines the authkeeper.v1.AuthService gRPC contract: the
// request and response messages, the service descriptor, and client and
// server bindings.
//
// The schema of authkeeper/v1/auth.proto is assembled here as a
// FileDescriptorProto and registered in protoregistry.GlobalFiles, so server
// reflection and tools such as grpcurl see the same service as a protoc
// build would produce. On the wire every message is a dynamicpb.Message
// encoded with the default proto codec; the Go structs in messages.go are
// converted at the binding boundary.
package proto

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

const (
	FileName    = "authkeeper/v1/auth.proto"
	PackageName = "authkeeper.v1"
)

// File is the registered descriptor of authkeeper/v1/auth.proto.
var File = mustRegisterFile(authFileDescriptor())

var (
	registerRequestDesc     = messageDescriptor("RegisterRequest")
	authenticateRequestDesc = messageDescriptor("AuthenticateRequest")
	refreshTokenRequestDesc = messageDescriptor("RefreshTokenRequest")
	tokenPairResponseDesc   = messageDescriptor("TokenPairResponse")
	logoutRequestDesc       = messageDescriptor("LogoutRequest")
	logoutResponseDesc      = messageDescriptor("LogoutResponse")
	getInfoRequestDesc      = messageDescriptor("GetInfoRequest")
	getInfoResponseDesc     = messageDescriptor("GetInfoResponse")
)

func stringField(name string, number int32) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum(),
	}
}

func int64Field(name string, number int32) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   descriptorpb.FieldDescriptorProto_TYPE_INT64.Enum(),
	}
}

func message(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
}

func method(name, in, out string) *descriptorpb.MethodDescriptorProto {
	return &descriptorpb.MethodDescriptorProto{
		Name:       proto.String(name),
		InputType:  proto.String("." + PackageName + "." + in),
		OutputType: proto.String("." + PackageName + "." + out),
	}
}

// authFileDescriptor is the equivalent of:
//
//	syntax = "proto3";
//	package authkeeper.v1;
//
//	service AuthService {
//	  rpc Register(RegisterRequest) returns (TokenPairResponse);
//	  rpc Authenticate(AuthenticateRequest) returns (TokenPairResponse);
//	  rpc RefreshToken(RefreshTokenRequest) returns (TokenPairResponse);
//	  rpc Logout(LogoutRequest) returns (LogoutResponse);
//	  rpc GetInfo(GetInfoRequest) returns (GetInfoResponse);
//	}
func authFileDescriptor() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String(FileName),
		Package: proto.String(PackageName),
		Syntax:  proto.String("proto3"),
		Options: &descriptorpb.FileOptions{
			GoPackage: proto.String("github.com/dmitrijs2005/authkeeper/internal/proto"),
		},
		MessageType: []*descriptorpb.DescriptorProto{
			message("RegisterRequest", stringField("email", 1), stringField("password", 2)),
			message("AuthenticateRequest", stringField("email", 1), stringField("password", 2)),
			message("RefreshTokenRequest", stringField("refresh_token", 1)),
			message("TokenPairResponse", stringField("access_token", 1), stringField("refresh_token", 2)),
			message("LogoutRequest"),
			message("LogoutResponse", int64Field("revoked", 1)),
			message("GetInfoRequest", stringField("email", 1)),
			message("GetInfoResponse",
				stringField("id", 1), stringField("email", 2), stringField("role", 3), stringField("created_at", 4)),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("AuthService"),
			Method: []*descriptorpb.MethodDescriptorProto{
				method("Register", "RegisterRequest", "TokenPairResponse"),
				method("Authenticate", "AuthenticateRequest", "TokenPairResponse"),
				method("RefreshToken", "RefreshTokenRequest", "TokenPairResponse"),
				method("Logout", "LogoutRequest", "LogoutResponse"),
				method("GetInfo", "GetInfoRequest", "GetInfoResponse"),
			},
		}},
	}
}

func mustRegisterFile(fdp *descriptorpb.FileDescriptorProto) protoreflect.FileDescriptor {
	fd, err := protodesc.NewFile(fdp, protoregistry.GlobalFiles)
	if err != nil {
		panic(fmt.Sprintf("proto: build %s: %v", fdp.GetName(), err))
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(fmt.Sprintf("proto: register %s: %v", fdp.GetName(), err))
	}
	return fd
}

func messageDescriptor(name protoreflect.Name) protoreflect.MessageDescriptor {
	md := File.Messages().ByName(name)
	if md == nil {
		panic(fmt.Sprintf("proto: message %s not in %s", name, FileName))
	}
	return md
}
