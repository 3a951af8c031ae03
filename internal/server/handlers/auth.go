package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/cartkeeper/internal/crypto"
	"github.com/iudanet/cartkeeper/internal/models"
	"github.com/iudanet/cartkeeper/internal/server/jwt"
	"github.com/iudanet/cartkeeper/internal/server/storage"
	"github.com/iudanet/cartkeeper/internal/validation"
	"github.com/iudanet/cartkeeper/pkg/api"
)

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	userStorage  storage.UserStorage
	tokenStorage storage.TokenStorage
	tokens       *jwt.Service
	admins       map[string]bool
	responder
}

// NewAuthHandler создает новый handler для авторизации.
// Пользователи из admins при регистрации получают роль администратора.
func NewAuthHandler(logger *slog.Logger, userStorage storage.UserStorage, tokenStorage storage.TokenStorage, tokens *jwt.Service, admins []string) *AuthHandler {
	adminSet := make(map[string]bool, len(admins))
	for _, name := range admins {
		adminSet[name] = true
	}
	return &AuthHandler{
		responder:    responder{logger: logger},
		userStorage:  userStorage,
		tokenStorage: tokenStorage,
		tokens:       tokens,
		admins:       adminSet,
	}
}

// Register обрабатывает POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode register request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateUsername(req.Username); err != nil {
		h.logger.WarnContext(ctx, "invalid username", slog.String("username", req.Username), slog.Any("error", err))
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	role := models.RoleShopper
	if h.admins[req.Username] {
		role = models.RoleAdministrator
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now(),
	}

	if err := h.userStorage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			h.logger.WarnContext(ctx, "user already exists", slog.String("username", req.Username))
			h.sendError(w, "username already taken", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user registered successfully",
		slog.String("username", user.Username),
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)))

	h.sendJSON(w, api.RegisterResponse{
		UserID:  user.ID,
		Message: "User registered successfully",
	}, http.StatusCreated)
}

// Login обрабатывает POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateUsername(req.Username); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Password == "" {
		h.sendError(w, "password is required", http.StatusBadRequest)
		return
	}

	user, err := h.userStorage.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "login failed: user not found", slog.String("username", req.Username))
			h.sendError(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := crypto.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		h.logger.WarnContext(ctx, "login failed: invalid password", slog.String("username", req.Username))
		h.sendError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	accessToken, expiresIn, err := h.tokens.GenerateAccessToken(user)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate access token", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.userStorage.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		// Не критичная ошибка, логируем но не прерываем
		h.logger.WarnContext(ctx, "failed to update last login", slog.Any("error", err))
	}

	h.logger.InfoContext(ctx, "user logged in successfully",
		slog.String("username", user.Username),
		slog.String("user_id", user.ID))

	h.sendJSON(w, api.TokenResponse{
		AccessToken: accessToken,
		UserID:      user.ID,
		Role:        string(user.Role),
		ExpiresIn:   expiresIn,
	}, http.StatusOK)
}

// Logout обрабатывает POST /api/v1/auth/logout (за AuthMiddleware).
// Отзывает предъявленный access token до истечения его срока.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := GetClaims(ctx)
	if !ok {
		h.sendError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	expiresAt := time.Now()
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := h.tokenStorage.RevokeToken(ctx, claims.ID, claims.UserID, expiresAt); err != nil {
		h.logger.ErrorContext(ctx, "failed to revoke token", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user logged out successfully", slog.String("user_id", claims.UserID))

	w.WriteHeader(http.StatusNoContent)
}
