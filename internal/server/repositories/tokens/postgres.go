package tokens

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX, so it can run on
// the pool or inside a transaction.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Save(ctx context.Context, userID, token string, kind models.TokenKind) (*models.IssuedToken, error) {
	query := `
		INSERT INTO tokens (user_id, token, kind, expired, revoked)
		VALUES ($1, $2, $3, FALSE, FALSE)
		RETURNING id, created_at
	`
	t := &models.IssuedToken{UserID: userID, Token: token, Kind: kind}
	if err := r.db.QueryRowContext(ctx, query, userID, token, string(kind)).Scan(&t.ID, &t.CreatedAt); err != nil {
		return nil, common.StorageError("save token", err)
	}
	return t, nil
}

func (r *PostgresRepository) FindActive(ctx context.Context, userID string) ([]*models.IssuedToken, error) {
	query := `
		SELECT id, user_id, token, kind, expired, revoked, created_at
		FROM tokens
		WHERE user_id = $1 AND NOT expired AND NOT revoked
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, common.StorageError("find active tokens", err)
	}
	defer rows.Close()

	var out []*models.IssuedToken
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, common.StorageError("find active tokens", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, common.StorageError("find active tokens", err)
	}
	return out, nil
}

func (r *PostgresRepository) RevokeAll(ctx context.Context, userID string, kinds ...models.TokenKind) (int64, error) {
	query := `
		UPDATE tokens
		SET expired = TRUE, revoked = TRUE
		WHERE user_id = $1 AND NOT expired AND NOT revoked`
	args := []any{userID}
	if len(kinds) > 0 {
		placeholders := make([]string, len(kinds))
		for i, k := range kinds {
			args = append(args, string(k))
			placeholders[i] = "$" + strconv.Itoa(i+2)
		}
		query += " AND kind IN (" + strings.Join(placeholders, ", ") + ")"
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, common.StorageError("revoke tokens", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, common.StorageError("revoke tokens", err)
	}
	return n, nil
}

func (r *PostgresRepository) FindByToken(ctx context.Context, token string) (*models.IssuedToken, error) {
	query := `
		SELECT id, user_id, token, kind, expired, revoked, created_at
		FROM tokens
		WHERE token = $1
	`
	t, err := scanToken(r.db.QueryRowContext(ctx, query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, common.StorageError("find token", err)
	}
	return t, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanToken(s scanner) (*models.IssuedToken, error) {
	t := &models.IssuedToken{}
	var kind string
	if err := s.Scan(&t.ID, &t.UserID, &t.Token, &kind, &t.Expired, &t.Revoked, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Kind = models.TokenKind(kind)
	return t, nil
}
