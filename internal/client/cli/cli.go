package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/iudanet/cartkeeper/internal/client/auth"
	"github.com/iudanet/cartkeeper/internal/client/iocli"
	"github.com/iudanet/cartkeeper/internal/client/session"
	cartsync "github.com/iudanet/cartkeeper/internal/client/sync"
	"github.com/iudanet/cartkeeper/internal/models"
	"github.com/iudanet/cartkeeper/pkg/api"
)

// EnvPassword переменная окружения с паролем для неинтерактивного входа
const EnvPassword = "CARTKEEPER_PASSWORD"

//go:generate moq -out session_mock.go . Session

// Session клиентская сессия корзины (session.Manager)
type Session interface {
	Login(ctx context.Context, username, password string) (*auth.LoginResult, error)
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (models.Identity, error)
	Wait(ctx context.Context) (*cartsync.Result, error)
	Refresh(ctx context.Context) (*cartsync.Result, error)
	Snapshot() models.CartSnapshot
	CartEnabled() bool
	AddOne(ctx context.Context, itemID string) error
	RemoveOne(ctx context.Context, itemID string) error
	Checkout(ctx context.Context) (*api.CheckoutResponse, error)
	SetCartEnabled(ctx context.Context, userID string, enabled bool) error
	NewScope() *session.Scope
}

// Passwords источники пароля
type Passwords struct {
	FromFile string
	FromArgs string
}

type Cli struct {
	io      iocli.IO
	auth    auth.Service
	session Session
}

func New(io iocli.IO, authService auth.Service, sess Session) *Cli {
	return &Cli{
		io:      io,
		auth:    authService,
		session: sess,
	}
}

// getPassword retrieves the password from various sources with priority:
// 1. Environment variable CARTKEEPER_PASSWORD
// 2. File specified in passwords.FromFile
// 3. Command-line parameter
// 4. Interactive prompt (fallback)
func (c *Cli) getPassword(passwords Passwords) (string, error) {
	if envPassword := os.Getenv(EnvPassword); envPassword != "" {
		return envPassword, nil
	}

	if passwords.FromFile != "" {
		content, err := os.ReadFile(passwords.FromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read password file: %w", err)
		}
		// Убираем trailing newline/whitespace
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", fmt.Errorf("password file is empty")
		}
		return password, nil
	}

	if passwords.FromArgs != "" {
		return passwords.FromArgs, nil
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read password from stdin: %w", err)
	}
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return password, nil
}

// restore активирует сохраненную сессию
func (c *Cli) restore(ctx context.Context) (models.Identity, error) {
	id, err := c.session.Restore(ctx)
	switch {
	case errors.Is(err, auth.ErrNotAuthenticated):
		return models.Identity{}, fmt.Errorf("not authenticated. Please run 'cartkeeper login' first")
	case errors.Is(err, auth.ErrSessionExpired):
		return models.Identity{}, fmt.Errorf("session expired. Please run 'cartkeeper login' again")
	case err != nil:
		return models.Identity{}, err
	}
	return id, nil
}

// restoreAndWait активирует сессию и ждет первую синхронизацию.
// Ошибка синхронизации не фатальна: показывается последняя сохраненная корзина.
func (c *Cli) restoreAndWait(ctx context.Context) (models.Identity, error) {
	id, err := c.restore(ctx)
	if err != nil {
		return id, err
	}
	if _, err := c.session.Wait(ctx); err != nil {
		c.io.Printf("Warning: cart sync failed, showing last known cart: %v\n", err)
	}
	return id, nil
}

func (c *Cli) render(tmpl *template.Template, data any) error {
	if err := tmpl.Execute(c.io, data); err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}
	return nil
}
