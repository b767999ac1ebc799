package tokens

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	saveQ        = `(?s)^\s*INSERT\s+INTO\s+tokens\s*\(user_id,\s*token,\s*kind,\s*expired,\s*revoked\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*FALSE,\s*FALSE\)\s*RETURNING\s+id,\s*created_at\s*$`
	findActiveQ  = `(?s)^\s*SELECT\s+id,\s*user_id,\s*token,\s*kind,\s*expired,\s*revoked,\s*created_at\s+FROM\s+tokens\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+NOT\s+expired\s+AND\s+NOT\s+revoked\s+ORDER\s+BY\s+created_at\s*$`
	revokeAllQ   = `(?s)^\s*UPDATE\s+tokens\s+SET\s+expired\s*=\s*TRUE,\s*revoked\s*=\s*TRUE\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+NOT\s+expired\s+AND\s+NOT\s+revoked\s*$`
	revokeKindQ  = `(?s)^\s*UPDATE\s+tokens\s+SET\s+expired\s*=\s*TRUE,\s*revoked\s*=\s*TRUE\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+NOT\s+expired\s+AND\s+NOT\s+revoked\s+AND\s+kind\s+IN\s+\(\$2\)\s*$`
	revokeKindsQ = `(?s)^\s*UPDATE\s+tokens\s+SET\s+expired\s*=\s*TRUE,\s*revoked\s*=\s*TRUE\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+NOT\s+expired\s+AND\s+NOT\s+revoked\s+AND\s+kind\s+IN\s+\(\$2,\s*\$3\)\s*$`
	findTokenQ   = `(?s)^\s*SELECT\s+id,\s*user_id,\s*token,\s*kind,\s*expired,\s*revoked,\s*created_at\s+FROM\s+tokens\s+WHERE\s+token\s*=\s*\$1\s*$`
)

var tokenCols = []string{"id", "user_id", "token", "kind", "expired", "revoked", "created_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestSave_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	created := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(saveQ).
		WithArgs("u-1", "tok-a", "access").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("t-1", created))

	got, err := repo.Save(context.Background(), "u-1", "tok-a", models.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, &models.IssuedToken{
		ID: "t-1", UserID: "u-1", Token: "tok-a", Kind: models.TokenKindAccess, CreatedAt: created,
	}, got)
	assert.True(t, got.Active())
}

func TestSave_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(saveQ).
		WithArgs("u-1", "tok-a", "refresh").
		WillReturnError(errors.New("duplicate key value violates unique constraint"))

	_, err := repo.Save(context.Background(), "u-1", "tok-a", models.TokenKindRefresh)
	require.ErrorIs(t, err, common.ErrStorage)
}

func TestFindActive(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	created := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(findActiveQ).WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(tokenCols).
			AddRow("t-1", "u-1", "tok-a", "access", false, false, created).
			AddRow("t-2", "u-1", "tok-r", "refresh", false, false, created))

	got, err := repo.FindActive(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.TokenKindAccess, got[0].Kind)
	assert.Equal(t, models.TokenKindRefresh, got[1].Kind)
}

func TestFindActive_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(findActiveQ).WithArgs("u-1").WillReturnRows(sqlmock.NewRows(tokenCols))

	got, err := repo.FindActive(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindActive_Errors(t *testing.T) {
	t.Run("query", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(findActiveQ).WithArgs("u-1").WillReturnError(errors.New("boom"))

		_, err := repo.FindActive(context.Background(), "u-1")
		require.ErrorIs(t, err, common.ErrStorage)
	})

	t.Run("rows", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(findActiveQ).WithArgs("u-1").
			WillReturnRows(sqlmock.NewRows(tokenCols).
				AddRow("t-1", "u-1", "tok-a", "access", false, false, time.Now()).
				RowError(0, errors.New("conn lost")))

		_, err := repo.FindActive(context.Background(), "u-1")
		require.ErrorIs(t, err, common.ErrStorage)
	})
}

func TestRevokeAll(t *testing.T) {
	tests := []struct {
		name  string
		kinds []models.TokenKind
		setup func(m sqlmock.Sqlmock)
		want  int64
	}{
		{
			name: "all kinds",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectExec(revokeAllQ).WithArgs("u-1").WillReturnResult(sqlmock.NewResult(0, 2))
			},
			want: 2,
		},
		{
			name:  "access only",
			kinds: []models.TokenKind{models.TokenKindAccess},
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectExec(revokeKindQ).WithArgs("u-1", "access").WillReturnResult(sqlmock.NewResult(0, 1))
			},
			want: 1,
		},
		{
			name:  "explicit kinds",
			kinds: []models.TokenKind{models.TokenKindAccess, models.TokenKindRefresh},
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectExec(revokeKindsQ).WithArgs("u-1", "access", "refresh").WillReturnResult(sqlmock.NewResult(0, 2))
			},
			want: 2,
		},
		{
			name: "nothing active is a no-op",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectExec(revokeAllQ).WithArgs("u-1").WillReturnResult(sqlmock.NewResult(0, 0))
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepoWithMock(t)
			tt.setup(mock)

			n, err := repo.RevokeAll(context.Background(), "u-1", tt.kinds...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestRevokeAll_Errors(t *testing.T) {
	t.Run("exec", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(revokeAllQ).WithArgs("u-1").WillReturnError(errors.New("boom"))

		_, err := repo.RevokeAll(context.Background(), "u-1")
		require.ErrorIs(t, err, common.ErrStorage)
	})

	t.Run("rows affected", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectExec(revokeAllQ).WithArgs("u-1").WillReturnResult(sqlmock.NewErrorResult(errors.New("unsupported")))

		_, err := repo.RevokeAll(context.Background(), "u-1")
		require.ErrorIs(t, err, common.ErrStorage)
	})
}

func TestFindByToken(t *testing.T) {
	created := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		setup   func(m sqlmock.Sqlmock)
		want    *models.IssuedToken
		wantErr error
	}{
		{
			name: "revoked record is still returned",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(findTokenQ).WithArgs("tok-a").
					WillReturnRows(sqlmock.NewRows(tokenCols).AddRow("t-1", "u-1", "tok-a", "access", true, true, created))
			},
			want: &models.IssuedToken{ID: "t-1", UserID: "u-1", Token: "tok-a", Kind: models.TokenKindAccess, Expired: true, Revoked: true, CreatedAt: created},
		},
		{
			name: "not found",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(findTokenQ).WithArgs("tok-a").WillReturnError(sql.ErrNoRows)
			},
			wantErr: common.ErrorNotFound,
		},
		{
			name: "db error",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(findTokenQ).WithArgs("tok-a").WillReturnError(errors.New("boom"))
			},
			wantErr: common.ErrStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepoWithMock(t)
			tt.setup(mock)

			got, err := repo.FindByToken(context.Background(), "tok-a")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.False(t, got.Active())
		})
	}
}
