package auth

import (
	"context"
	"time"

	"github.com/iudanet/cartkeeper/internal/models"
	"github.com/iudanet/cartkeeper/pkg/api"
)

//go:generate moq -out service_mock.go . Service

// Service управляет сессией пользователя на клиенте
type Service interface {
	// Register регистрирует нового покупателя на сервере
	Register(ctx context.Context, username, password string) (*RegisterResult, error)

	// Login аутентифицирует пользователя и сохраняет сессию локально
	Login(ctx context.Context, username, password string) (*LoginResult, error)

	// Restore восстанавливает identity из сохраненной сессии.
	// Возвращает ErrNotAuthenticated если сессии нет и ErrSessionExpired если токен истек.
	Restore(ctx context.Context) (models.Identity, error)

	// Logout завершает сессию: уведомляет сервер, удаляет токен и локальный кеш корзины
	Logout(ctx context.Context) error

	// AccessToken возвращает действующий access token (TokenSource для api.Client)
	AccessToken(ctx context.Context) (string, error)

	// Session возвращает сохраненные данные сессии без проверки срока действия
	Session(ctx context.Context) (*SessionInfo, error)
}

//go:generate moq -out api_mock.go . APIClient

// APIClient серверная часть аутентификации
type APIClient interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error)
	Logout(ctx context.Context) error
}

// CacheCleaner удаляет локальные данные identity
type CacheCleaner interface {
	Clear(ctx context.Context, identityID string) error
}

// RegisterResult результат регистрации
type RegisterResult struct {
	UserID   string
	Username string
}

// LoginResult результат входа
type LoginResult struct {
	ExpiresAt time.Time
	Identity  models.Identity
	Username  string
}

// SessionInfo сохраненная сессия
type SessionInfo struct {
	ExpiresAt time.Time
	Identity  models.Identity
	Username  string
	Expired   bool
}
