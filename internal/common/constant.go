package common

const (
	// AuthorizationHeaderName is the HTTP header carrying the bearer token.
	AuthorizationHeaderName = "Authorization"

	// AuthorizationMetadataKey is the gRPC metadata key carrying the bearer
	// token. gRPC lower-cases metadata keys.
	AuthorizationMetadataKey = "authorization"

	// BearerPrefix precedes the token in an authorization value.
	BearerPrefix = "Bearer "
)
