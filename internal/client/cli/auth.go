package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/client/client"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) promptCredentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

// Register prompts for an email and password, creates the account and keeps
// the returned tokens, so the user is logged in afterwards.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.promptCredentials()
	if err != nil {
		return a.report(err)
	}
	defer clear(password)

	if err := a.client.Register(ctx, email, string(password)); err != nil {
		return a.report(err)
	}

	a.email = email
	fmt.Fprintln(a.out, "Registered, logged in as", email)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, password, err := a.promptCredentials()
	if err != nil {
		return a.report(err)
	}
	defer clear(password)

	if err := a.client.Login(ctx, email, string(password)); err != nil {
		return a.report(err)
	}

	a.email = email
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Info prints the account registered under email, or the current user's
// account when email is empty.
func (a *App) Info(ctx context.Context, email string) error {
	if email == "" {
		email = a.email
	}
	info, err := a.client.GetInfo(ctx, email)
	if err != nil {
		return a.report(err)
	}

	fmt.Fprintf(a.out, "id:      %s\nemail:   %s\nrole:    %s\ncreated: %s\n",
		info.ID, info.Email, info.Role, info.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	if err := a.client.Refresh(ctx); err != nil {
		return a.report(err)
	}
	fmt.Fprintln(a.out, "Access token refreshed")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	n, err := a.client.Logout(ctx)
	if err != nil {
		return a.report(err)
	}
	a.email = ""
	fmt.Fprintf(a.out, "Logged out, %d token(s) revoked\n", n)
	return nil
}

func (a *App) report(err error) error {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		fmt.Fprintln(a.out, "Error: unauthorized (wrong credentials or expired session)")
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(a.out, "Error: server unavailable")
	default:
		fmt.Fprintln(a.out, "Error:", err.Error())
	}
	return err
}
