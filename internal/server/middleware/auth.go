package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/iudanet/cartkeeper/internal/models"
	"github.com/iudanet/cartkeeper/internal/server/handlers"
	"github.com/iudanet/cartkeeper/internal/server/jwt"
)

// RevocationChecker проверяет, не отозван ли токен при logout
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthMiddleware создает middleware для проверки JWT токена
func AuthMiddleware(logger *slog.Logger, tokens *jwt.Service, revocations RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.WarnContext(ctx, "Missing Authorization header")
				handlers.WriteError(logger, w, "missing token", http.StatusUnauthorized)
				return
			}

			// Ожидаем формат: "Bearer <token>"
			scheme, tokenString, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
				logger.WarnContext(ctx, "Invalid Authorization header format")
				handlers.WriteError(logger, w, "invalid token format", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.ValidateAccessToken(tokenString)
			if err != nil {
				logger.WarnContext(ctx, "Invalid access token", "error", err)
				handlers.WriteError(logger, w, "invalid token", http.StatusUnauthorized)
				return
			}

			revoked, err := revocations.IsRevoked(ctx, claims.ID)
			if err != nil {
				logger.ErrorContext(ctx, "Failed to check token revocation", "error", err)
				handlers.WriteError(logger, w, "internal server error", http.StatusInternalServerError)
				return
			}
			if revoked {
				logger.WarnContext(ctx, "Revoked access token", "user_id", claims.UserID)
				handlers.WriteError(logger, w, "token revoked", http.StatusUnauthorized)
				return
			}

			logger.DebugContext(ctx, "User authenticated", "user_id", claims.UserID, "role", claims.Role)

			next.ServeHTTP(w, r.WithContext(handlers.WithClaims(ctx, claims)))
		})
	}
}

// RequireRole пропускает только пользователей с ролью role (ставится после AuthMiddleware)
func RequireRole(logger *slog.Logger, role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := handlers.GetRole(r.Context())
			if !ok || got != role {
				userID, _ := handlers.GetUserID(r.Context())
				logger.WarnContext(r.Context(), "Role required", "user_id", userID, "role", string(got), "required", string(role))
				handlers.WriteError(logger, w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
