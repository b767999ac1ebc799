package services

import (
	"context"
	"database/sql"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/passwords"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var (
	testSecret = []byte("0123456789abcdef0123456789abcdef")
	t0         = time.Unix(1_700_000_000, 0)
)

// memStore is an in-memory users + tokens store. Failure fields, when set,
// are returned by the matching operation.
type memStore struct {
	mu     sync.Mutex
	seq    int
	users  map[string]*models.User
	tokens []*models.IssuedToken

	failGetUser  error
	failCreate   error
	failLock     error
	failSave     error
	failRevoke   error
	failFind     error
	saveFailsAt  int
	saves        int
	tokenLookups int
	locks        []string
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]*models.User)}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return prefix + "-" + strconv.Itoa(s.seq)
}

// snapshot returns value copies of all token records.
func (s *memStore) snapshot() []models.IssuedToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.IssuedToken, len(s.tokens))
	for i, t := range s.tokens {
		out[i] = *t
	}
	return out
}

func (s *memStore) record(token string) *models.IssuedToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tokens {
		if t.Token == token {
			c := *t
			return &c
		}
	}
	return nil
}

func (s *memStore) deleteUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

type memUsers struct{ s *memStore }

func (r *memUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failCreate != nil {
		return nil, r.s.failCreate
	}
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return nil, common.ErrDuplicateAccount
		}
	}
	user.ID = r.s.nextID("user")
	user.CreatedAt = t0
	c := *user
	r.s.users[user.ID] = &c
	return user, nil
}

func (r *memUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failGetUser != nil {
		return nil, r.s.failGetUser
	}
	for _, u := range r.s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failGetUser != nil {
		return nil, r.s.failGetUser
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	return &c, nil
}

func (r *memUsers) Lock(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failLock != nil {
		return r.s.failLock
	}
	if _, ok := r.s.users[id]; !ok {
		return common.ErrorNotFound
	}
	r.s.locks = append(r.s.locks, id)
	return nil
}

type memTokens struct{ s *memStore }

func (r *memTokens) Save(ctx context.Context, userID, token string, kind models.TokenKind) (*models.IssuedToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.saves++
	if r.s.failSave != nil && (r.s.saveFailsAt == 0 || r.s.saves == r.s.saveFailsAt) {
		return nil, r.s.failSave
	}
	t := &models.IssuedToken{ID: r.s.nextID("tok"), UserID: userID, Token: token, Kind: kind, CreatedAt: t0}
	r.s.tokens = append(r.s.tokens, t)
	c := *t
	return &c, nil
}

func (r *memTokens) FindActive(ctx context.Context, userID string) ([]*models.IssuedToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.IssuedToken
	for _, t := range r.s.tokens {
		if t.UserID == userID && t.Active() {
			c := *t
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memTokens) RevokeAll(ctx context.Context, userID string, kinds ...models.TokenKind) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failRevoke != nil {
		return 0, r.s.failRevoke
	}
	var n int64
	for _, t := range r.s.tokens {
		if t.UserID != userID || !t.Active() || !kindIn(t.Kind, kinds) {
			continue
		}
		t.Expired, t.Revoked = true, true
		n++
	}
	return n, nil
}

func (r *memTokens) FindByToken(ctx context.Context, token string) (*models.IssuedToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.tokenLookups++
	if r.s.failFind != nil {
		return nil, r.s.failFind
	}
	for _, t := range r.s.tokens {
		if t.Token == token {
			c := *t
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func kindIn(k models.TokenKind, kinds []models.TokenKind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

type memManager struct{ s *memStore }

func (m *memManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memManager) Users(dbx.DBTX) users.Repository             { return &memUsers{s: m.s} }
func (m *memManager) Tokens(dbx.DBTX) tokens.Repository           { return &memTokens{s: m.s} }

type fixture struct {
	svc   *AuthService
	gate  *Gate
	store *memStore
	codec *auth.Codec
	mock  sqlmock.Sqlmock
	now   *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	now := t0
	codec, err := auth.NewCodec(testSecret, auth.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	hasher, err := passwords.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)

	store := newMemStore()
	m := &memManager{s: store}
	cfg := &config.Config{
		AccessTokenValidityDuration:  15 * time.Minute,
		RefreshTokenValidityDuration: 24 * time.Hour,
	}

	return &fixture{
		svc:   NewAuthService(db, m, codec, hasher, cfg),
		gate:  NewGate(db, m, codec),
		store: store,
		codec: codec,
		mock:  mock,
		now:   &now,
	}
}

// expectCommits expects n transactions that commit.
func (f *fixture) expectCommits(n int) {
	for i := 0; i < n; i++ {
		f.mock.ExpectBegin()
		f.mock.ExpectCommit()
	}
}

func (f *fixture) expectRollback() {
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
}

// register creates an account through the service.
func (f *fixture) register(t *testing.T, email, password string) *TokenPair {
	t.Helper()
	f.expectCommits(1)
	pair, err := f.svc.Register(context.Background(), email, password)
	require.NoError(t, err)
	return pair
}

func (f *fixture) userID(t *testing.T, email string) string {
	t.Helper()
	u, err := (&memUsers{s: f.store}).GetUserByEmail(context.Background(), email)
	require.NoError(t, err)
	return u.ID
}

func (f *fixture) active(t *testing.T, userID string) []*models.IssuedToken {
	t.Helper()
	out, err := (&memTokens{s: f.store}).FindActive(context.Background(), userID)
	require.NoError(t, err)
	return out
}
