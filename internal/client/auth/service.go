package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/cartkeeper/internal/client/identity"
	"github.com/iudanet/cartkeeper/internal/client/storage"
	"github.com/iudanet/cartkeeper/internal/models"
	"github.com/iudanet/cartkeeper/internal/validation"
	"github.com/iudanet/cartkeeper/pkg/api"
)

var (
	// ErrNotAuthenticated нет сохраненной сессии
	ErrNotAuthenticated = errors.New("not authenticated, please login")

	// ErrSessionExpired access token истек
	ErrSessionExpired = errors.New("session expired, please login again")
)

// service реализует Service
type service struct {
	apiClient APIClient
	storage   storage.AuthStorage
	cache     CacheCleaner
	logger    *slog.Logger
	now       func() time.Time
}

// NewService создает сервис аутентификации
func NewService(apiClient APIClient, authStorage storage.AuthStorage, cache CacheCleaner, logger *slog.Logger) Service {
	return &service{
		apiClient: apiClient,
		storage:   authStorage,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
	}
}

// Register регистрирует нового покупателя
func (s *service) Register(ctx context.Context, username, password string) (*RegisterResult, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	resp, err := s.apiClient.Register(ctx, api.RegisterRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	return &RegisterResult{UserID: resp.UserID, Username: username}, nil
}

// Login аутентифицирует пользователя и сохраняет токен в локальное хранилище
func (s *service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, fmt.Errorf("invalid username: %w", err)
	}
	if password == "" {
		return nil, fmt.Errorf("password cannot be empty")
	}

	resp, err := s.apiClient.Login(ctx, api.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	id, expiresAt, err := identity.FromAccessToken(resp.AccessToken)
	if err != nil {
		return nil, err
	}
	if expiresAt.IsZero() && resp.ExpiresIn > 0 {
		expiresAt = s.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}

	data := &storage.AuthData{
		Username:    username,
		UserID:      id.ID,
		Role:        string(id.Role),
		AccessToken: resp.AccessToken,
	}
	if !expiresAt.IsZero() {
		data.ExpiresAt = expiresAt.Unix()
	}
	if err := s.storage.SaveAuth(ctx, data); err != nil {
		return nil, fmt.Errorf("failed to save auth data: %w", err)
	}

	s.logger.Info("logged in", "user_id", id.ID, "role", id.Role)

	return &LoginResult{Identity: id, Username: username, ExpiresAt: expiresAt}, nil
}

// Restore восстанавливает identity из сохраненного токена
func (s *service) Restore(ctx context.Context) (models.Identity, error) {
	info, err := s.Session(ctx)
	if err != nil {
		return models.Identity{}, err
	}
	if info.Expired {
		return models.Identity{}, ErrSessionExpired
	}
	return info.Identity, nil
}

// Session читает сохраненную сессию
func (s *service) Session(ctx context.Context) (*SessionInfo, error) {
	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	id, _, err := identity.FromAccessToken(data.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("stored session is corrupted: %w", err)
	}

	info := &SessionInfo{Identity: id, Username: data.Username}
	if data.ExpiresAt > 0 {
		info.ExpiresAt = time.Unix(data.ExpiresAt, 0)
		info.Expired = !s.now().Before(info.ExpiresAt)
	}
	return info, nil
}

// AccessToken возвращает токен для запросов к серверу
func (s *service) AccessToken(ctx context.Context) (string, error) {
	data, err := s.load(ctx)
	if err != nil {
		return "", err
	}
	if data.ExpiresAt > 0 && !s.now().Before(time.Unix(data.ExpiresAt, 0)) {
		return "", ErrSessionExpired
	}
	return data.AccessToken, nil
}

// Logout удаляет локальную сессию. Ошибка сервера не мешает выходу.
func (s *service) Logout(ctx context.Context) error {
	data, err := s.load(ctx)
	if errors.Is(err, ErrNotAuthenticated) {
		return nil
	}
	if err != nil {
		return err
	}

	if data.ExpiresAt == 0 || s.now().Before(time.Unix(data.ExpiresAt, 0)) {
		if err := s.apiClient.Logout(ctx); err != nil {
			s.logger.Warn("server logout failed", "error", err)
		}
	}

	var errs []error
	if data.UserID != "" {
		if err := s.cache.Clear(ctx, data.UserID); err != nil {
			errs = append(errs, fmt.Errorf("failed to clear cart cache: %w", err))
		}
	}
	if err := s.storage.DeleteAuth(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to delete auth data: %w", err))
	}

	s.logger.Info("logged out", "user_id", data.UserID)
	return errors.Join(errs...)
}

func (s *service) load(ctx context.Context) (*storage.AuthData, error) {
	data, err := s.storage.GetAuth(ctx)
	if errors.Is(err, storage.ErrAuthNotFound) {
		return nil, ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get auth data: %w", err)
	}
	return data, nil
}
