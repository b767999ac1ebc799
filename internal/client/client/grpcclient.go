// Package client is the authkeeper gRPC client library. It keeps the
// current token pair, attaches the access token to gated calls, and on a
// PermissionDenied reply exchanges the refresh token once and retries.
package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	pb "github.com/dmitrijs2005/authkeeper/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// UserInfo describes an account as returned by GetInfo.
type UserInfo struct {
	ID        string
	Email     string
	Role      string
	CreatedAt time.Time
}

type GRPCClient struct {
	conn    *grpc.ClientConn
	client  pb.AuthServiceClient
	timeout time.Duration

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

// NewGRPCClient connects lazily to endpointURL. Extra dial options are
// appended after the defaults (insecure transport, token interceptor).
func NewGRPCClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{timeout: timeout}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = pb.NewAuthServiceClient(conn)
	return c, nil
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationMetadataKey, common.BearerPrefix+token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if method == pb.AuthService_RefreshToken_FullMethodName {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	access, refresh := s.Tokens()
	if access == "" {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if status.Code(err) != codes.PermissionDenied || refresh == "" {
		return err
	}

	if rerr := s.refresh(ctx, refresh); rerr != nil {
		return err
	}

	access, _ = s.Tokens()
	return invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
}

func (s *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Tokens returns the current access and refresh tokens.
func (s *GRPCClient) Tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) SetTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken, s.refreshToken = access, refresh
}

func (s *GRPCClient) LoggedIn() bool {
	access, _ := s.Tokens()
	return access != ""
}

func (s *GRPCClient) Register(ctx context.Context, email, password string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Register(ctx, &pb.RegisterRequest{Email: email, Password: password})
	if err != nil {
		return s.mapError(err)
	}
	s.SetTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Authenticate(ctx, &pb.AuthenticateRequest{Email: email, Password: password})
	if err != nil {
		return s.mapError(err)
	}
	s.SetTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

// Refresh exchanges the stored refresh token for a new access token.
func (s *GRPCClient) Refresh(ctx context.Context) error {
	_, refresh := s.Tokens()
	if refresh == "" {
		return ErrNotLoggedIn
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.mapError(s.refresh(ctx, refresh))
}

func (s *GRPCClient) refresh(ctx context.Context, refreshToken string) error {
	resp, err := s.client.RefreshToken(ctx, &pb.RefreshTokenRequest{RefreshToken: refreshToken})
	if err != nil {
		return err
	}
	s.SetTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

// Logout revokes every token of the current user and forgets the local pair.
func (s *GRPCClient) Logout(ctx context.Context) (int64, error) {
	if !s.LoggedIn() {
		return 0, ErrNotLoggedIn
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Logout(ctx, &pb.LogoutRequest{})
	if err != nil {
		return 0, s.mapError(err)
	}
	s.SetTokens("", "")
	return resp.Revoked, nil
}

func (s *GRPCClient) GetInfo(ctx context.Context, email string) (*UserInfo, error) {
	if !s.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.GetInfo(ctx, &pb.GetInfoRequest{Email: email})
	if err != nil {
		return nil, s.mapError(err)
	}

	info := &UserInfo{ID: resp.ID, Email: resp.Email, Role: resp.Role}
	if resp.CreatedAt != "" {
		created, err := time.Parse(time.RFC3339, resp.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("bad created_at %q: %w", resp.CreatedAt, err)
		}
		info.CreatedAt = created
	}
	return info, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.NotFound:
		return ErrNotFound
	case codes.InvalidArgument:
		return ErrInvalidInput
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
