// Package services contains the server-side business logic: AuthService
// issues, refreshes and revokes token pairs, and Gate admits or rejects
// requests that present an access token.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/passwords"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/tokens"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// PasswordHasher hashes and verifies passwords. Compare returns
// passwords.ErrMismatch for a wrong password.
type PasswordHasher interface {
	Hash(password string) ([]byte, error)
	Compare(hash []byte, password string) error
	CompareDummy(password string)
}

// AuthService provides the token lifecycle:
//   - Register: create an account and its first token pair
//   - Authenticate: verify credentials, revoke the previous pair, issue a new one
//   - Refresh: exchange a refresh token for a new access token
//   - Logout: revoke every active token of a user
//
// All writes for one user run in a single transaction that first locks the
// user row, so issuance for a principal is serialized.
type AuthService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	codec                        *auth.Codec
	hasher                       PasswordHasher
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewAuthService constructs an AuthService from its collaborators and the
// token lifetimes in cfg.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, codec *auth.Codec, hasher PasswordHasher, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		codec:                        codec,
		hasher:                       hasher,
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates a USER account for email and returns its first token
// pair. The account and both token records are written atomically.
func (s *AuthService) Register(ctx context.Context, email, password string) (*TokenPair, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrInvalidRequest)
	}
	if len(password) > passwords.MaxLength {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidRequest, passwords.ErrTooLong)
	}

	_, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrDuplicateAccount
	case !errors.Is(err, common.ErrorNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, passwords.ErrTooLong) {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidRequest, err)
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	return dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*TokenPair, error) {
		user, err := s.repomanager.Users(tx).Create(ctx, &models.User{
			Email:        email,
			PasswordHash: hash,
			Role:         models.RoleUser,
		})
		if err != nil {
			return nil, err
		}
		return s.issuePair(ctx, s.repomanager.Tokens(tx), user)
	})
}

// Authenticate verifies the credentials and returns a new token pair. Every
// token previously issued to the user is revoked in the same transaction.
// An unknown account and a wrong password both match
// common.ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.verifyCredentials(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return nil, err
	}

	return dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*TokenPair, error) {
		if err := s.lockUser(ctx, tx, user.ID); err != nil {
			return nil, err
		}
		repo := s.repomanager.Tokens(tx)
		if _, err := repo.RevokeAll(ctx, user.ID); err != nil {
			return nil, err
		}
		return s.issuePair(ctx, repo, user)
	})
}

// Refresh exchanges a valid, active refresh token for a new access token.
// The user's other access tokens are revoked; the refresh token itself is
// returned unchanged. Every rejection matches common.ErrInvalidRefreshToken.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.codec.Decode(refreshToken)
	if err != nil {
		return nil, rejectRefresh(err)
	}
	if claims.Kind() != models.TokenKindRefresh {
		return nil, rejectRefresh(fmt.Errorf("token kind %q", claims.Kind()))
	}
	if s.codec.IsExpired(claims) {
		return nil, rejectRefresh(common.ErrTokenExpired)
	}

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, claims.Subject())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, rejectRefresh(common.ErrAccountNotFound)
		}
		return nil, err
	}

	return dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*TokenPair, error) {
		if err := s.lockUser(ctx, tx, user.ID); err != nil {
			if errors.Is(err, common.ErrAccountNotFound) {
				return nil, rejectRefresh(err)
			}
			return nil, err
		}

		repo := s.repomanager.Tokens(tx)
		record, err := repo.FindByToken(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, rejectRefresh(errors.New("unknown token"))
			}
			return nil, err
		}
		switch {
		case record.UserID != user.ID:
			return nil, rejectRefresh(errors.New("token owner mismatch"))
		case record.Kind != models.TokenKindRefresh:
			return nil, rejectRefresh(fmt.Errorf("stored kind %q", record.Kind))
		case !record.Active():
			return nil, rejectRefresh(errors.New("token revoked"))
		}

		if _, err := repo.RevokeAll(ctx, user.ID, models.TokenKindAccess); err != nil {
			return nil, err
		}
		access, err := s.issue(ctx, repo, user, models.TokenKindAccess, s.accessTokenValidityDuration)
		if err != nil {
			return nil, err
		}
		return &TokenPair{AccessToken: access, RefreshToken: refreshToken}, nil
	})
}

// RefreshFromHeader is Refresh for a refresh token carried as
// "Authorization: Bearer <token>". A missing or malformed header yields
// common.ErrMalformedAuthHeader.
func (s *AuthService) RefreshFromHeader(ctx context.Context, header string) (*TokenPair, error) {
	token, err := auth.ExtractBearer(header)
	if err != nil {
		return nil, err
	}
	return s.Refresh(ctx, token)
}

// Logout revokes every active token of the user and reports how many were
// revoked.
func (s *AuthService) Logout(ctx context.Context, userID string) (int64, error) {
	return dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (int64, error) {
		if err := s.lockUser(ctx, tx, userID); err != nil {
			return 0, err
		}
		return s.repomanager.Tokens(tx).RevokeAll(ctx, userID)
	})
}

// GetInfo looks up an account by email.
func (s *AuthService) GetInfo(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrAccountNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) verifyCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.CompareDummy(password)
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidCredentials, common.ErrAccountNotFound)
		}
		return nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, passwords.ErrMismatch) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return user, nil
}

func (s *AuthService) lockUser(ctx context.Context, tx dbx.DBTX, userID string) error {
	if err := s.repomanager.Users(tx).Lock(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrAccountNotFound
		}
		return err
	}
	return nil
}

func (s *AuthService) issuePair(ctx context.Context, repo tokens.Repository, user *models.User) (*TokenPair, error) {
	access, err := s.issue(ctx, repo, user, models.TokenKindAccess, s.accessTokenValidityDuration)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issue(ctx, repo, user, models.TokenKindRefresh, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) issue(ctx context.Context, repo tokens.Repository, user *models.User, kind models.TokenKind, ttl time.Duration) (string, error) {
	token, err := s.codec.Issue(user.Email, kind, ttl)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	if _, err := repo.Save(ctx, user.ID, token, kind); err != nil {
		return "", err
	}
	return token, nil
}

func rejectRefresh(cause error) error {
	return fmt.Errorf("%w: %w", common.ErrInvalidRefreshToken, cause)
}
