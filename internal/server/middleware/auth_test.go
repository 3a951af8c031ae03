package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/cartkeeper/internal/models"
	"github.com/iudanet/cartkeeper/internal/server/handlers"
	"github.com/iudanet/cartkeeper/internal/server/jwt"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError,
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

type revocations map[string]bool

func (r revocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "broken" {
		return false, errors.New("db down")
	}
	return r[tokenID], nil
}

// testHandler is a simple handler that checks context values
func testHandler(t *testing.T, expectedUserID string, expectedRole models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := handlers.GetUserID(r.Context())
		require.True(t, ok, "user_id should be in context")
		assert.Equal(t, expectedUserID, userID)

		role, ok := handlers.GetRole(r.Context())
		require.True(t, ok, "role should be in context")
		assert.Equal(t, expectedRole, role)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

func mustToken(t *testing.T, tokens *jwt.Service, user *models.User) string {
	t.Helper()
	token, _, err := tokens.GenerateAccessToken(user)
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware_Success(t *testing.T) {
	tokens := jwt.NewService("test-secret-key", 15*time.Minute)
	token := mustToken(t, tokens, &models.User{ID: "user123", Username: "testuser", Role: models.RoleShopper})

	wrapped := AuthMiddleware(setupTestLogger(), tokens, revocations{})(testHandler(t, "user123", models.RoleShopper))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	tokens := jwt.NewService("test-secret-key", 15*time.Minute)
	valid := mustToken(t, tokens, &models.User{ID: "user123", Username: "testuser"})
	otherSecret := mustToken(t, jwt.NewService("other-secret", time.Minute), &models.User{ID: "user123"})

	claims, err := tokens.ValidateAccessToken(valid)
	require.NoError(t, err)

	tests := []struct {
		revoked  revocations
		name     string
		header   string
		wantBody string
		wantCode int
	}{
		{name: "missing header", header: "", wantCode: http.StatusUnauthorized, wantBody: "missing token"},
		{name: "no Bearer prefix", header: "token123", wantCode: http.StatusUnauthorized, wantBody: "invalid token format"},
		{name: "wrong prefix", header: "Basic token123", wantCode: http.StatusUnauthorized, wantBody: "invalid token format"},
		{name: "only Bearer", header: "Bearer", wantCode: http.StatusUnauthorized, wantBody: "invalid token format"},
		{name: "garbage token", header: "Bearer abc.def.ghi", wantCode: http.StatusUnauthorized, wantBody: "invalid token"},
		{name: "wrong secret", header: "Bearer " + otherSecret, wantCode: http.StatusUnauthorized, wantBody: "invalid token"},
		{
			name: "revoked", header: "Bearer " + valid, revoked: revocations{claims.ID: true},
			wantCode: http.StatusUnauthorized, wantBody: "token revoked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("Handler should not be called")
			})
			revoked := tt.revoked
			if revoked == nil {
				revoked = revocations{}
			}
			wrapped := AuthMiddleware(setupTestLogger(), tokens, revoked)(handler)

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestRequireRole(t *testing.T) {
	tokens := jwt.NewService("test-secret-key", 15*time.Minute)

	tests := []struct {
		name     string
		role     models.Role
		wantCode int
	}{
		{name: "admin passes", role: models.RoleAdministrator, wantCode: http.StatusOK},
		{name: "shopper rejected", role: models.RoleShopper, wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := setupTestLogger()
			token := mustToken(t, tokens, &models.User{ID: "u1", Username: "someone", Role: tt.role})

			wrapped := AuthMiddleware(logger, tokens, revocations{})(
				RequireRole(logger, models.RoleAdministrator)(testHandler(t, "u1", models.RoleAdministrator)),
			)

			req := httptest.NewRequest(http.MethodPost, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestRequireRole_WithoutAuth(t *testing.T) {
	wrapped := RequireRole(setupTestLogger(), models.RoleAdministrator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("Handler should not be called")
	}))

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
