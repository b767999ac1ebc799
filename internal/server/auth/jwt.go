// Package auth implements the bearer-token codec: HS256 JSON Web Tokens
// carrying a subject, issue and expiry times, a unique id and the token kind.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinSecretLength is the smallest accepted HMAC key, in bytes.
const MinSecretLength = 32

var ErrShortSecret = fmt.Errorf("signing secret must be at least %d bytes", MinSecretLength)

type tokenClaims struct {
	jwt.RegisteredClaims
	Kind models.TokenKind `json:"typ"`
}

// Claims is the verified content of a token.
type Claims struct {
	subject   string
	id        string
	kind      models.TokenKind
	issuedAt  time.Time
	expiresAt time.Time
}

func (c *Claims) Subject() string        { return c.subject }
func (c *Claims) ID() string             { return c.id }
func (c *Claims) Kind() models.TokenKind { return c.kind }
func (c *Claims) IssuedAt() time.Time    { return c.issuedAt }
func (c *Claims) ExpiresAt() time.Time   { return c.expiresAt }

// Codec signs and verifies tokens with a fixed secret. It is safe for
// concurrent use.
type Codec struct {
	secret []byte
	now    func() time.Time
	parser *jwt.Parser
}

type CodecOption func(*Codec)

// WithClock replaces time.Now as the source of issue and expiry times.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) { c.now = now }
}

// NewCodec returns a Codec keyed with a private copy of secret.
func NewCodec(secret []byte, opts ...CodecOption) (*Codec, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrShortSecret
	}
	c := &Codec{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue signs a new token for subject that stays valid for at least ttl
// from now. Every call yields a distinct string.
func (c *Codec) Issue(subject string, kind models.TokenKind, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("empty token subject")
	}
	if !kind.Valid() {
		return "", fmt.Errorf("unknown token kind %q", kind)
	}

	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(ceilTime(now.Add(ttl))),
		},
		Kind: kind,
	})

	s, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// ceilTime rounds t up to jwt.TimePrecision. NumericDate truncates, and a
// truncated exp would end the token before now+ttl.
func ceilTime(t time.Time) time.Time {
	if d := t.Truncate(jwt.TimePrecision); d.Before(t) {
		return d.Add(jwt.TimePrecision)
	}
	return t
}

// Decode verifies the signature and structure of token and returns its
// claims. Every failure matches common.ErrInvalidSignature; expiry is not
// checked here, see IsExpired.
func (c *Codec) Decode(token string) (*Claims, error) {
	tc := &tokenClaims{}
	parsed, err := c.parser.ParseWithClaims(token, tc, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidSignature, err)
	}
	if !parsed.Valid {
		return nil, common.ErrInvalidSignature
	}

	switch {
	case tc.Subject == "":
		return nil, fmt.Errorf("%w: missing subject", common.ErrInvalidSignature)
	case tc.ExpiresAt == nil:
		return nil, fmt.Errorf("%w: missing expiry", common.ErrInvalidSignature)
	case !tc.Kind.Valid():
		return nil, fmt.Errorf("%w: unknown kind %q", common.ErrInvalidSignature, tc.Kind)
	}

	claims := &Claims{
		subject:   tc.Subject,
		id:        tc.ID,
		kind:      tc.Kind,
		expiresAt: tc.ExpiresAt.Time,
	}
	if tc.IssuedAt != nil {
		claims.issuedAt = tc.IssuedAt.Time
	}
	return claims, nil
}

// IsExpired reports whether the expiry of claims lies strictly before now.
func (c *Codec) IsExpired(claims *Claims) bool {
	return claims.ExpiresAt().Before(c.now())
}
