package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/dynamicpb"
)

const ServiceName = "authkeeper.v1.AuthService"

const (
	AuthService_Register_FullMethodName     = "/" + ServiceName + "/Register"
	AuthService_Authenticate_FullMethodName = "/" + ServiceName + "/Authenticate"
	AuthService_RefreshToken_FullMethodName = "/" + ServiceName + "/RefreshToken"
	AuthService_Logout_FullMethodName       = "/" + ServiceName + "/Logout"
	AuthService_GetInfo_FullMethodName      = "/" + ServiceName + "/GetInfo"
)

// AuthServiceClient is the client API for AuthService.
type AuthServiceClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*TokenPairResponse, error)
	Authenticate(ctx context.Context, in *AuthenticateRequest, opts ...grpc.CallOption) (*TokenPairResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*TokenPairResponse, error)
	Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error)
	GetInfo(ctx context.Context, in *GetInfoRequest, opts ...grpc.CallOption) (*GetInfoResponse, error)
}

type authServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAuthServiceClient(cc grpc.ClientConnInterface) AuthServiceClient {
	return &authServiceClient{cc: cc}
}

func invoke[Resp any, PResp wire[Resp]](ctx context.Context, cc grpc.ClientConnInterface, method string, in wireMessage, opts []grpc.CallOption) (PResp, error) {
	out := PResp(new(Resp))
	reply := dynamicpb.NewMessage(out.descriptor())
	if err := cc.Invoke(ctx, method, in.toProto(), reply, opts...); err != nil {
		return nil, err
	}
	out.fromProto(reply)
	return out, nil
}

func (c *authServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*TokenPairResponse, error) {
	return invoke[TokenPairResponse](ctx, c.cc, AuthService_Register_FullMethodName, in, opts)
}

func (c *authServiceClient) Authenticate(ctx context.Context, in *AuthenticateRequest, opts ...grpc.CallOption) (*TokenPairResponse, error) {
	return invoke[TokenPairResponse](ctx, c.cc, AuthService_Authenticate_FullMethodName, in, opts)
}

func (c *authServiceClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*TokenPairResponse, error) {
	return invoke[TokenPairResponse](ctx, c.cc, AuthService_RefreshToken_FullMethodName, in, opts)
}

func (c *authServiceClient) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*LogoutResponse, error) {
	return invoke[LogoutResponse](ctx, c.cc, AuthService_Logout_FullMethodName, in, opts)
}

func (c *authServiceClient) GetInfo(ctx context.Context, in *GetInfoRequest, opts ...grpc.CallOption) (*GetInfoResponse, error) {
	return invoke[GetInfoResponse](ctx, c.cc, AuthService_GetInfo_FullMethodName, in, opts)
}

// AuthServiceServer is the server API for AuthService. Implementations must
// embed UnimplementedAuthServiceServer.
type AuthServiceServer interface {
	Register(context.Context, *RegisterRequest) (*TokenPairResponse, error)
	Authenticate(context.Context, *AuthenticateRequest) (*TokenPairResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*TokenPairResponse, error)
	Logout(context.Context, *LogoutRequest) (*LogoutResponse, error)
	GetInfo(context.Context, *GetInfoRequest) (*GetInfoResponse, error)
	mustEmbedUnimplementedAuthServiceServer()
}

type UnimplementedAuthServiceServer struct{}

func (UnimplementedAuthServiceServer) Register(context.Context, *RegisterRequest) (*TokenPairResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedAuthServiceServer) Authenticate(context.Context, *AuthenticateRequest) (*TokenPairResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Authenticate not implemented")
}
func (UnimplementedAuthServiceServer) RefreshToken(context.Context, *RefreshTokenRequest) (*TokenPairResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RefreshToken not implemented")
}
func (UnimplementedAuthServiceServer) Logout(context.Context, *LogoutRequest) (*LogoutResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Logout not implemented")
}
func (UnimplementedAuthServiceServer) GetInfo(context.Context, *GetInfoRequest) (*GetInfoResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetInfo not implemented")
}
func (UnimplementedAuthServiceServer) mustEmbedUnimplementedAuthServiceServer() {}

func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&AuthService_ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to grpc.MethodHandler. The
// request is decoded as a dynamic message and converted before interceptors
// run, so they see the Go struct; the handler result is converted back.
func unaryHandler[Req any, Resp any, PReq wire[Req], PResp wire[Resp]](method string, call func(AuthServiceServer, context.Context, PReq) (PResp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := PReq(new(Req))
		raw := dynamicpb.NewMessage(in.descriptor())
		if err := dec(raw); err != nil {
			return nil, err
		}
		in.fromProto(raw)

		handler := func(ctx context.Context, req any) (any, error) {
			resp, err := call(srv.(AuthServiceServer), ctx, req.(PReq))
			if err != nil {
				return nil, err
			}
			return resp.toProto(), nil
		}
		if interceptor == nil {
			return handler(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		return interceptor(ctx, in, info, handler)
	}
}

var AuthService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler[RegisterRequest, TokenPairResponse](AuthService_Register_FullMethodName, AuthServiceServer.Register)},
		{MethodName: "Authenticate", Handler: unaryHandler[AuthenticateRequest, TokenPairResponse](AuthService_Authenticate_FullMethodName, AuthServiceServer.Authenticate)},
		{MethodName: "RefreshToken", Handler: unaryHandler[RefreshTokenRequest, TokenPairResponse](AuthService_RefreshToken_FullMethodName, AuthServiceServer.RefreshToken)},
		{MethodName: "Logout", Handler: unaryHandler[LogoutRequest, LogoutResponse](AuthService_Logout_FullMethodName, AuthServiceServer.Logout)},
		{MethodName: "GetInfo", Handler: unaryHandler[GetInfoRequest, GetInfoResponse](AuthService_GetInfo_FullMethodName, AuthServiceServer.GetInfo)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: FileName,
}
