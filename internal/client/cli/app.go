package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/authkeeper/internal/client/client"
	"github.com/dmitrijs2005/authkeeper/internal/client/config"
)

// AuthAPI is the server surface the CLI needs.
type AuthAPI interface {
	Signup(ctx context.Context, email string, password []byte) error
	Login(ctx context.Context, email string, password []byte) (string, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (string, error)
}

type App struct {
	config *config.Config
	api    AuthAPI
	tokens *TokenStore
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config, in io.Reader, out io.Writer) *App {
	return &App{
		config: c,
		api:    client.NewHTTPClient(c.ServerURL, c.RequestTimeout),
		tokens: NewTokenStore(c.TokenFile),
		reader: bufio.NewReader(in),
		out:    out,
	}
}

const usage = "usage: client [-a url] [-f token-file] [-t seconds] [-c config.json] <signup|login|logout|me>"

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command given\n%s", usage)
	}

	switch args[0] {
	case "signup", "register":
		return a.Signup(ctx)
	case "login":
		return a.Login(ctx)
	case "logout":
		return a.Logout(ctx)
	case "me", "whoami":
		return a.Me(ctx)
	case "help":
		fmt.Fprintln(a.out, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}
