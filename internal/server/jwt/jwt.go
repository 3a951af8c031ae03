// Package jwt issues and verifies access tokens of the cart service.
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iudanet/cartkeeper/internal/models"
)

const issuer = "cartkeeper"

// ErrInvalidToken токен не прошел проверку
var ErrInvalidToken = errors.New("invalid token")

// Claims represents JWT claims. Клиент читает user_id и role без проверки подписи.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	gojwt.RegisteredClaims
}

// Service provides JWT token generation and validation
type Service struct {
	now            func() time.Time
	secret         []byte
	accessTokenTTL time.Duration
}

// NewService creates a new JWT service
// secret should be a cryptographically secure random string
func NewService(secret string, accessTokenTTL time.Duration) *Service {
	return &Service{
		secret:         []byte(secret),
		accessTokenTTL: accessTokenTTL,
		now:            time.Now,
	}
}

// GenerateAccessToken creates a new JWT access token for the user.
// Returns the token and its lifetime in seconds.
func (s *Service) GenerateAccessToken(user *models.User) (string, int64, error) {
	now := s.now()

	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			Issuer:    issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			NotBefore: gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}

	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, int64(s.accessTokenTTL.Seconds()), nil
}

// ValidateAccessToken validates and parses JWT access token
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	parser := gojwt.NewParser(
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithIssuer(issuer),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*gojwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
