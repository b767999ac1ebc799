package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
)

var (
	errNotAccessToken  = errors.New("not an access token")
	errUnknownToken    = errors.New("token not issued by this server")
	errRevokedToken    = errors.New("token revoked")
	errExpiredRecord   = errors.New("token record expired")
	errSubjectMismatch = errors.New("token subject does not match owner")
)

// Gate decides whether a request carrying a bearer access token may
// proceed. It only reads from the store.
type Gate struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	codec       *auth.Codec
}

func NewGate(db dbx.DBTX, m repomanager.RepositoryManager, codec *auth.Codec) *Gate {
	return &Gate{db: db, repomanager: m, codec: codec}
}

// Admit validates an Authorization header value and returns the principal it
// authenticates. Every rejection matches common.ErrForbidden and wraps the
// reason; a storage failure is returned as is and matches common.ErrStorage.
//
// Checks run in order: header shape, signature, expiry and kind, store
// record, owning user. A header without the bearer prefix never reaches the
// store.
func (g *Gate) Admit(ctx context.Context, header string) (*models.User, error) {
	token, err := auth.ExtractBearer(header)
	if err != nil {
		return nil, deny(err)
	}
	return g.AdmitToken(ctx, token)
}

// AdmitToken is Admit for a bare token.
func (g *Gate) AdmitToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := g.codec.Decode(token)
	if err != nil {
		return nil, deny(err)
	}
	if g.codec.IsExpired(claims) {
		return nil, deny(common.ErrTokenExpired)
	}
	if claims.Kind() != models.TokenKindAccess {
		return nil, deny(errNotAccessToken)
	}

	record, err := g.repomanager.Tokens(g.db).FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, deny(errUnknownToken)
		}
		return nil, err
	}
	switch {
	case record.Revoked:
		return nil, deny(errRevokedToken)
	case record.Expired:
		return nil, deny(errExpiredRecord)
	case record.Kind != models.TokenKindAccess:
		return nil, deny(errNotAccessToken)
	}

	user, err := g.repomanager.Users(g.db).GetUserByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, deny(common.ErrAccountNotFound)
		}
		return nil, err
	}
	if user.Email != claims.Subject() {
		return nil, deny(errSubjectMismatch)
	}

	return user, nil
}

func deny(cause error) error {
	return fmt.Errorf("%w: %w", common.ErrForbidden, cause)
}
