// Package tokens is the token store: the persisted record of every issued
// access and refresh token and its revocation state.
package tokens

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

type Repository interface {
	// Save records a freshly issued token as active.
	Save(ctx context.Context, userID, token string, kind models.TokenKind) (*models.IssuedToken, error)
	// FindActive lists the user's tokens that are neither expired nor revoked.
	FindActive(ctx context.Context, userID string) ([]*models.IssuedToken, error)
	// RevokeAll marks every active token of the user, optionally limited to
	// kinds, as expired and revoked and reports how many rows changed.
	RevokeAll(ctx context.Context, userID string, kinds ...models.TokenKind) (int64, error)
	// FindByToken returns the record for token or common.ErrorNotFound.
	FindByToken(ctx context.Context, token string) (*models.IssuedToken, error)
}
