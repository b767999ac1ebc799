package models

import "time"

// TokenKind distinguishes short-lived access tokens from refresh tokens.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Valid reports whether k is a known kind.
func (k TokenKind) Valid() bool {
	return k == TokenKindAccess || k == TokenKindRefresh
}

// IssuedToken is the persisted record of a token handed out to a user.
// Expired and Revoked only ever move from false to true.
type IssuedToken struct {
	ID        string
	UserID    string
	Token     string
	Kind      TokenKind
	Expired   bool
	Revoked   bool
	CreatedAt time.Time
}

// Active reports whether the record still admits requests.
func (t *IssuedToken) Active() bool {
	return !t.Expired && !t.Revoked
}
