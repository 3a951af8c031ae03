package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/cartkeeper/internal/models"
	"github.com/iudanet/cartkeeper/internal/server/jwt"
	"github.com/iudanet/cartkeeper/internal/server/storage"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// mockUserStorage is a mock implementation of UserStorage for testing
type mockUserStorage struct {
	users        map[string]*models.User // username -> User
	createError  error
	getUserError error
	mu           sync.Mutex
}

func newMockUserStorage(users ...*models.User) *mockUserStorage {
	m := &mockUserStorage{users: make(map[string]*models.User)}
	for _, u := range users {
		m.users[u.Username] = u
	}
	return m
}

func (m *mockUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createError != nil {
		return m.createError
	}
	if _, exists := m.users[user.Username]; exists {
		return storage.ErrUserAlreadyExists
	}
	m.users[user.Username] = user
	return nil
}

func (m *mockUserStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getUserError != nil {
		return nil, m.getUserError
	}
	user, ok := m.users[username]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *mockUserStorage) UpdateLastLogin(ctx context.Context, userID string, loginTime time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == userID {
			user.LastLogin = &loginTime
			return nil
		}
	}
	return storage.ErrUserNotFound
}

// mockTokenStorage is a mock implementation of TokenStorage for testing
type mockTokenStorage struct {
	revoked     map[string]time.Time
	revokeError error
}

func (m *mockTokenStorage) RevokeToken(ctx context.Context, tokenID, userID string, expiresAt time.Time) error {
	if m.revokeError != nil {
		return m.revokeError
	}
	m.revoked[tokenID] = expiresAt
	return nil
}

func (m *mockTokenStorage) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	_, ok := m.revoked[tokenID]
	return ok, nil
}

func (m *mockTokenStorage) DeleteExpiredRevocations(ctx context.Context) (int, error) {
	return 0, nil
}

// mockCartStorage is a func-field mock of CartStorage
type mockCartStorage struct {
	getCart     func(ctx context.Context, userID string) ([]models.CartLine, error)
	applyChange func(ctx context.Context, change storage.LineChange) (*storage.LineResult, error)
	cartEnabled func(ctx context.Context, userID string) (bool, error)
	setEnabled  func(ctx context.Context, userID string, enabled bool) error
	checkout    func(ctx context.Context, userID, orderID string) (*models.Order, error)
	changes     []storage.LineChange
}

func (m *mockCartStorage) GetCart(ctx context.Context, userID string) ([]models.CartLine, error) {
	return m.getCart(ctx, userID)
}

func (m *mockCartStorage) ApplyLineChange(ctx context.Context, change storage.LineChange) (*storage.LineResult, error) {
	m.changes = append(m.changes, change)
	return m.applyChange(ctx, change)
}

func (m *mockCartStorage) CartEnabled(ctx context.Context, userID string) (bool, error) {
	if m.cartEnabled == nil {
		return true, nil
	}
	return m.cartEnabled(ctx, userID)
}

func (m *mockCartStorage) SetCartEnabled(ctx context.Context, userID string, enabled bool) error {
	return m.setEnabled(ctx, userID, enabled)
}

func (m *mockCartStorage) Checkout(ctx context.Context, userID, orderID string) (*models.Order, error) {
	return m.checkout(ctx, userID, orderID)
}

// fakeMetrics запоминает наблюдения op/outcome
type fakeMetrics struct {
	observed []string
}

func (f *fakeMetrics) ObserveCartOperation(op, outcome string) {
	f.observed = append(f.observed, op+"/"+outcome)
}

// authorized добавляет в запрос claims, как это делает AuthMiddleware
func authorized(req *http.Request, userID string, role models.Role) *http.Request {
	claims := &jwt.Claims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        "token-" + userID,
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	return req.WithContext(WithClaims(req.Context(), claims))
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}
