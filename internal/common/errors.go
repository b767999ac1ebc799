// Package common defines shared constants and sentinel errors used across
// the authkeeper server, transports and client. Callers should use errors.Is
// to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrStorage    = errors.New("storage failure")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrInvalidRequest = errors.New("invalid request")

	// Account errors.
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")

	// Token errors.
	ErrInvalidSignature    = errors.New("invalid token signature")
	ErrTokenExpired        = errors.New("token expired")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrMalformedAuthHeader = errors.New("malformed authorization header")

	// Gate rejection. Every denied request matches this value.
	ErrForbidden = errors.New("forbidden")
)

// StorageError tags err as a storage failure of operation op. The result
// matches both ErrStorage and err.
func StorageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
