// Package users declares the user directory contract and its PostgreSQL
// implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills in its ID and CreatedAt. An existing
	// email yields common.ErrDuplicateAccount.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// Lock takes a row lock on the user for the rest of the enclosing
	// transaction. A missing user yields common.ErrorNotFound.
	Lock(ctx context.Context, id string) error
}
