package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/client/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	loggedIn bool
	err      error

	email, password string
	info            *client.UserInfo
	revoked         int64
	closed          bool
}

func (f *fakeClient) Register(_ context.Context, email, password string) error {
	f.email, f.password = email, password
	if f.err == nil {
		f.loggedIn = true
	}
	return f.err
}
func (f *fakeClient) Login(_ context.Context, email, password string) error {
	f.email, f.password = email, password
	if f.err == nil {
		f.loggedIn = true
	}
	return f.err
}
func (f *fakeClient) Refresh(context.Context) error { return f.err }
func (f *fakeClient) Logout(context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.loggedIn = false
	return f.revoked, nil
}
func (f *fakeClient) GetInfo(_ context.Context, email string) (*client.UserInfo, error) {
	f.email = email
	return f.info, f.err
}
func (f *fakeClient) LoggedIn() bool { return f.loggedIn }
func (f *fakeClient) Close() error   { f.closed = true; return nil }

func newTestApp(t *testing.T, c *fakeClient) (*App, *bytes.Buffer) {
	t.Helper()

	origText, origPw := getSimpleText, getPassword
	t.Cleanup(func() { getSimpleText, getPassword = origText, origPw })
	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) { return "alice@example.com", nil }
	getPassword = func(io.Writer) ([]byte, error) { return []byte("pw"), nil }

	var out bytes.Buffer
	return &App{client: c, reader: bufio.NewReader(strings.NewReader("")), out: &out}, &out
}

func TestRegister_LogsIn(t *testing.T) {
	c := &fakeClient{}
	a, out := newTestApp(t, c)

	require.NoError(t, a.Register(context.Background()))
	assert.Equal(t, "alice@example.com", c.email)
	assert.Equal(t, "pw", c.password)
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "(alice@example.com)", a.getStatus())
	assert.Contains(t, out.String(), "Registered")
}

func TestLogin_Unauthorized(t *testing.T) {
	c := &fakeClient{err: client.ErrUnauthorized}
	a, out := newTestApp(t, c)

	require.ErrorIs(t, a.Login(context.Background()), client.ErrUnauthorized)
	assert.False(t, a.isLoggedIn())
	assert.Empty(t, a.getStatus())
	assert.Contains(t, out.String(), "unauthorized")
}

func TestInfo_DefaultsToCurrentUser(t *testing.T) {
	c := &fakeClient{info: &client.UserInfo{
		ID: "u1", Email: "alice@example.com", Role: "USER",
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}}
	a, out := newTestApp(t, c)
	require.NoError(t, a.Login(context.Background()))

	require.NoError(t, a.Info(context.Background(), ""))
	assert.Equal(t, "alice@example.com", c.email)
	assert.Contains(t, out.String(), "role:    USER")
	assert.Contains(t, out.String(), "created: 2024-05-01 12:00:00")

	require.NoError(t, a.Info(context.Background(), "bob@example.com"))
	assert.Equal(t, "bob@example.com", c.email)
}

func TestLogout(t *testing.T) {
	c := &fakeClient{revoked: 2}
	a, out := newTestApp(t, c)
	require.NoError(t, a.Login(context.Background()))

	require.NoError(t, a.Logout(context.Background()))
	assert.False(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "2 token(s) revoked")
}

func TestRefresh_Unavailable(t *testing.T) {
	c := &fakeClient{err: client.ErrUnavailable}
	a, out := newTestApp(t, c)

	require.ErrorIs(t, a.Refresh(context.Background()), client.ErrUnavailable)
	assert.Contains(t, out.String(), "server unavailable")
}

func TestRun_ClosesClient(t *testing.T) {
	c := &fakeClient{}
	a, out := newTestApp(t, c)
	a.reader = bufio.NewReader(strings.NewReader("help\nexit\n"))

	a.Run(context.Background())
	assert.True(t, c.closed)
	assert.Contains(t, out.String(), "Welcome to authkeeper CLI")
}
