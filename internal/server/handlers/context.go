package handlers

import (
	"context"

	"github.com/iudanet/cartkeeper/internal/models"
	"github.com/iudanet/cartkeeper/internal/server/jwt"
)

// contextKey тип для ключей контекста
type contextKey string

// ClaimsKey ключ для хранения проверенных claims в контексте (AuthMiddleware)
const ClaimsKey contextKey = "claims"

// WithClaims кладет claims в контекст запроса
func WithClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// GetClaims извлекает claims из контекста запроса
func GetClaims(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*jwt.Claims)
	return claims, ok && claims != nil
}

// GetUserID извлекает user_id из контекста запроса
func GetUserID(ctx context.Context) (string, bool) {
	claims, ok := GetClaims(ctx)
	if !ok {
		return "", false
	}
	return claims.UserID, true
}

// GetRole извлекает роль из контекста запроса
func GetRole(ctx context.Context) (models.Role, bool) {
	claims, ok := GetClaims(ctx)
	if !ok {
		return "", false
	}
	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return "", false
	}
	return role, true
}
