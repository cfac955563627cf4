package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/client/client"
	"github.com/dmitrijs2005/authkeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) credentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

// Signup prompts for an email and password and creates the account.
// The password byte slice is wiped before returning.
func (a *App) Signup(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Signup(ctx, email, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Signed up!")
	return nil
}

// Login prompts for credentials and saves the issued access token.
func (a *App) Login(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	token, err := a.api.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return errors.New("login failed: wrong email or password")
		}
		return err
	}

	if err := a.tokens.Save(token); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", email)
	return nil
}

// Logout revokes the saved token on the server and removes the token file.
// A token the server already rejects is removed as well.
func (a *App) Logout(ctx context.Context) error {
	token, err := a.tokens.Load()
	if err != nil {
		return err
	}

	if err := a.api.Logout(ctx, token); err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			_ = a.tokens.Remove()
		}
		return err
	}

	if err := a.tokens.Remove(); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Me prints the email the saved token was issued to.
func (a *App) Me(ctx context.Context) error {
	token, err := a.tokens.Load()
	if err != nil {
		return err
	}

	email, err := a.api.Me(ctx, token)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, email)
	return nil
}
