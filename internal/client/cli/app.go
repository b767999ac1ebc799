// Package cli implements the interactive authkeeper command line: a small
// REPL that registers, logs in, looks up accounts and logs out over gRPC.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/authkeeper/internal/client/client"
	"github.com/dmitrijs2005/authkeeper/internal/client/config"
)

// authClient is the part of client.GRPCClient the CLI drives.
type authClient interface {
	Register(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) (int64, error)
	GetInfo(ctx context.Context, email string) (*client.UserInfo, error)
	LoggedIn() bool
	Close() error
}

type App struct {
	config *config.Config
	client authClient
	reader *bufio.Reader
	out    io.Writer
	email  string
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return &App{config: c, client: apiClient, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) isLoggedIn() bool {
	return a.client.LoggedIn()
}

func (a *App) getStatus() string {
	if a.email == "" || !a.isLoggedIn() {
		return ""
	}
	return fmt.Sprintf("(%s)", a.email)
}

// Run reads commands from standard input until EOF or "exit".
func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	fmt.Fprintln(a.out, "Welcome to authkeeper CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}
