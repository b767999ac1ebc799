package grpc

import (
	"context"
	"time"

	pb "github.com/dmitrijs2005/authkeeper/internal/proto"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.TokenPairResponse, error) {
	pair, err := s.auth.Register(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, pb.AuthService_Register_FullMethodName, err)
	}

	s.logger.Info(ctx, "Registered", "email", req.Email)
	return toPairResponse(pair), nil
}

func (s *GRPCServer) Authenticate(ctx context.Context, req *pb.AuthenticateRequest) (*pb.TokenPairResponse, error) {
	pair, err := s.auth.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, pb.AuthService_Authenticate_FullMethodName, err)
	}
	return toPairResponse(pair), nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *pb.RefreshTokenRequest) (*pb.TokenPairResponse, error) {
	pair, err := s.auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, pb.AuthService_RefreshToken_FullMethodName, err)
	}
	return toPairResponse(pair), nil
}

func (s *GRPCServer) Logout(ctx context.Context, req *pb.LogoutRequest) (*pb.LogoutResponse, error) {
	user, ok := services.PrincipalFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Internal, "internal error")
	}

	n, err := s.auth.Logout(ctx, user.ID)
	if err != nil {
		return nil, s.toStatus(ctx, pb.AuthService_Logout_FullMethodName, err)
	}

	s.logger.Info(ctx, "Logged out", "user_id", user.ID, "revoked", n)
	return &pb.LogoutResponse{Revoked: n}, nil
}

func (s *GRPCServer) GetInfo(ctx context.Context, req *pb.GetInfoRequest) (*pb.GetInfoResponse, error) {
	if _, ok := services.PrincipalFromContext(ctx); !ok {
		return nil, status.Error(codes.Internal, "internal error")
	}

	user, err := s.auth.GetInfo(ctx, req.Email)
	if err != nil {
		return nil, s.toStatus(ctx, pb.AuthService_GetInfo_FullMethodName, err)
	}

	return &pb.GetInfoResponse{
		ID:        user.ID,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func toPairResponse(p *services.TokenPair) *pb.TokenPairResponse {
	return &pb.TokenPairResponse{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
}
