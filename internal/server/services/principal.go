package services

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

type ctxKey string

const principalKey ctxKey = "principal"

// WithPrincipal returns a copy of ctx carrying the admitted user.
func WithPrincipal(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, principalKey, user)
}

// PrincipalFromContext returns the user attached by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(principalKey).(*models.User)
	return user, ok && user != nil
}
