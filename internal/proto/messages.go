package proto

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// wireMessage converts between a Go message and its protobuf form.
// descriptor must not dereference the receiver.
type wireMessage interface {
	descriptor() protoreflect.MessageDescriptor
	toProto() proto.Message
	fromProto(m protoreflect.Message)
}

// wire constrains a type parameter to a pointer to a message struct.
type wire[T any] interface {
	*T
	wireMessage
}

func newDynamic(md protoreflect.MessageDescriptor) *dynamicpb.Message {
	return dynamicpb.NewMessage(md)
}

func setString(m *dynamicpb.Message, name protoreflect.Name, v string) {
	m.Set(m.Descriptor().Fields().ByName(name), protoreflect.ValueOfString(v))
}

func setInt64(m *dynamicpb.Message, name protoreflect.Name, v int64) {
	m.Set(m.Descriptor().Fields().ByName(name), protoreflect.ValueOfInt64(v))
}

func getString(m protoreflect.Message, name protoreflect.Name) string {
	return m.Get(m.Descriptor().Fields().ByName(name)).String()
}

func getInt64(m protoreflect.Message, name protoreflect.Name) int64 {
	return m.Get(m.Descriptor().Fields().ByName(name)).Int()
}

type RegisterRequest struct {
	Email    string
	Password string
}

func (*RegisterRequest) descriptor() protoreflect.MessageDescriptor { return registerRequestDesc }

func (r *RegisterRequest) toProto() proto.Message {
	m := newDynamic(registerRequestDesc)
	if r != nil {
		setString(m, "email", r.Email)
		setString(m, "password", r.Password)
	}
	return m
}

func (r *RegisterRequest) fromProto(m protoreflect.Message) {
	r.Email = getString(m, "email")
	r.Password = getString(m, "password")
}

type AuthenticateRequest struct {
	Email    string
	Password string
}

func (*AuthenticateRequest) descriptor() protoreflect.MessageDescriptor {
	return authenticateRequestDesc
}

func (r *AuthenticateRequest) toProto() proto.Message {
	m := newDynamic(authenticateRequestDesc)
	if r != nil {
		setString(m, "email", r.Email)
		setString(m, "password", r.Password)
	}
	return m
}

func (r *AuthenticateRequest) fromProto(m protoreflect.Message) {
	r.Email = getString(m, "email")
	r.Password = getString(m, "password")
}

type RefreshTokenRequest struct {
	RefreshToken string
}

func (*RefreshTokenRequest) descriptor() protoreflect.MessageDescriptor {
	return refreshTokenRequestDesc
}

func (r *RefreshTokenRequest) toProto() proto.Message {
	m := newDynamic(refreshTokenRequestDesc)
	if r != nil {
		setString(m, "refresh_token", r.RefreshToken)
	}
	return m
}

func (r *RefreshTokenRequest) fromProto(m protoreflect.Message) {
	r.RefreshToken = getString(m, "refresh_token")
}

// TokenPairResponse is returned by Register, Authenticate and RefreshToken.
type TokenPairResponse struct {
	AccessToken  string
	RefreshToken string
}

func (r *TokenPairResponse) GetAccessToken() string {
	if r == nil {
		return ""
	}
	return r.AccessToken
}

func (r *TokenPairResponse) GetRefreshToken() string {
	if r == nil {
		return ""
	}
	return r.RefreshToken
}

func (*TokenPairResponse) descriptor() protoreflect.MessageDescriptor { return tokenPairResponseDesc }

func (r *TokenPairResponse) toProto() proto.Message {
	m := newDynamic(tokenPairResponseDesc)
	setString(m, "access_token", r.GetAccessToken())
	setString(m, "refresh_token", r.GetRefreshToken())
	return m
}

func (r *TokenPairResponse) fromProto(m protoreflect.Message) {
	r.AccessToken = getString(m, "access_token")
	r.RefreshToken = getString(m, "refresh_token")
}

type LogoutRequest struct{}

func (*LogoutRequest) descriptor() protoreflect.MessageDescriptor { return logoutRequestDesc }
func (*LogoutRequest) toProto() proto.Message                     { return newDynamic(logoutRequestDesc) }
func (*LogoutRequest) fromProto(protoreflect.Message)             {}

type LogoutResponse struct {
	Revoked int64
}

func (*LogoutResponse) descriptor() protoreflect.MessageDescriptor { return logoutResponseDesc }

func (r *LogoutResponse) toProto() proto.Message {
	m := newDynamic(logoutResponseDesc)
	if r != nil {
		setInt64(m, "revoked", r.Revoked)
	}
	return m
}

func (r *LogoutResponse) fromProto(m protoreflect.Message) {
	r.Revoked = getInt64(m, "revoked")
}

type GetInfoRequest struct {
	Email string
}

func (*GetInfoRequest) descriptor() protoreflect.MessageDescriptor { return getInfoRequestDesc }

func (r *GetInfoRequest) toProto() proto.Message {
	m := newDynamic(getInfoRequestDesc)
	if r != nil {
		setString(m, "email", r.Email)
	}
	return m
}

func (r *GetInfoRequest) fromProto(m protoreflect.Message) {
	r.Email = getString(m, "email")
}

// GetInfoResponse describes an account. CreatedAt is RFC 3339.
type GetInfoResponse struct {
	ID        string
	Email     string
	Role      string
	CreatedAt string
}

func (*GetInfoResponse) descriptor() protoreflect.MessageDescriptor { return getInfoResponseDesc }

func (r *GetInfoResponse) toProto() proto.Message {
	m := newDynamic(getInfoResponseDesc)
	if r != nil {
		setString(m, "id", r.ID)
		setString(m, "email", r.Email)
		setString(m, "role", r.Role)
		setString(m, "created_at", r.CreatedAt)
	}
	return m
}

func (r *GetInfoResponse) fromProto(m protoreflect.Message) {
	r.ID = getString(m, "id")
	r.Email = getString(m, "email")
	r.Role = getString(m, "role")
	r.CreatedAt = getString(m, "created_at")
}
