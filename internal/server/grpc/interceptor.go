package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	pb "github.com/dmitrijs2005/authkeeper/internal/proto"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// gatedMethods require an access token in the "authorization" metadata.
var gatedMethods = map[string]struct{}{
	pb.AuthService_Logout_FullMethodName:  {},
	pb.AuthService_GetInfo_FullMethodName: {},
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if _, ok := gatedMethods[info.FullMethod]; !ok {
		return handler(ctx, req)
	}

	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AuthorizationMetadataKey); len(values) > 0 {
			header = values[0]
		}
	}

	user, err := s.gate.Admit(ctx, header)
	if err != nil {
		return nil, s.toStatus(ctx, info.FullMethod, err)
	}

	return handler(services.WithPrincipal(ctx, user), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug(ctx, "rpc",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}
