package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/cartkeeper/internal/models"
)

// Claims claims access token'а, которые выдает сервер корзин
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// FromAccessToken восстанавливает identity из access token.
// Подпись не проверяется: секрет есть только у сервера, а сервер все равно
// проверит токен на каждом запросе. Клиенту нужны только id и роль.
func FromAccessToken(token string) (models.Identity, time.Time, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return models.Identity{}, time.Time{}, fmt.Errorf("failed to parse access token: %w", err)
	}

	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return models.Identity{}, time.Time{}, fmt.Errorf("invalid role claim: %w", err)
	}

	id := claims.UserID
	if id == "" {
		id = claims.Subject
	}
	if id == "" {
		return models.Identity{}, time.Time{}, fmt.Errorf("access token has no user id")
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return models.Identity{ID: id, Role: role}, expiresAt, nil
}
