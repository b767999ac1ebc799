// Package passwords hashes and verifies account passwords with bcrypt.
package passwords

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxLength is the longest password bcrypt accepts, in bytes.
const MaxLength = 72

var (
	// ErrMismatch is returned by Compare when the password does not match.
	ErrMismatch = errors.New("password mismatch")
	// ErrTooLong is returned by Hash for a password over MaxLength bytes.
	ErrTooLong = fmt.Errorf("password is longer than %d bytes", MaxLength)
)

// Hasher wraps bcrypt with a fixed cost.
type Hasher struct {
	cost  int
	dummy []byte
}

// NewHasher returns a Hasher using cost, which must lie within bcrypt's
// accepted range.
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("authkeeper-dummy-password"), cost)
	if err != nil {
		return nil, err
	}
	return &Hasher{cost: cost, dummy: dummy}, nil
}

// Hash returns the bcrypt hash of password.
func (h *Hasher) Hash(password string) ([]byte, error) {
	if len(password) > MaxLength {
		return nil, ErrTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// Compare checks password against hash. A wrong password yields ErrMismatch,
// and so does one over MaxLength, which Hash never accepted.
func (h *Hasher) Compare(hash []byte, password string) error {
	if len(password) > MaxLength {
		h.CompareDummy(password[:MaxLength])
		return ErrMismatch
	}
	err := bcrypt.CompareHashAndPassword(hash, []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrMismatch
	default:
		return fmt.Errorf("compare password: %w", err)
	}
}

// CompareDummy spends the same work as Compare against a hash that never
// matches. Callers use it when the account does not exist.
func (h *Hasher) CompareDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}
