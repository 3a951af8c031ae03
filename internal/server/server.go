// Package server собирает HTTP API корзины: маршруты, middleware и жизненный цикл.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/iudanet/cartkeeper/internal/models"
	"github.com/iudanet/cartkeeper/internal/server/handlers"
	"github.com/iudanet/cartkeeper/internal/server/jwt"
	"github.com/iudanet/cartkeeper/internal/server/middleware"
	"github.com/iudanet/cartkeeper/internal/server/storage"
)

const (
	defaultShutdownTimeout   = 15 * time.Second
	defaultRevocationCleanup = time.Hour
)

// Storage все хранилища сервера (реализуется sqlite.Storage)
type Storage interface {
	storage.UserStorage
	storage.TokenStorage
	storage.ItemStorage
	storage.CartStorage
	handlers.Pinger
}

// Config параметры сервера
type Config struct {
	Addr      string
	JWTSecret string
	Version   string
	Admins    []string
	TokenTTL  time.Duration

	// RateLimit общий лимит запросов с одного IP за RateWindow
	RateLimit  int
	RateWindow time.Duration
	// AuthRateLimit лимит для login/register
	AuthRateLimit int

	ShutdownTimeout time.Duration
}

// Server HTTP сервер корзины
type Server struct {
	logger  *slog.Logger
	storage Storage
	http    *http.Server
	limits  *middleware.RateLimits
	cfg     Config
}

// New собирает обработчики и middleware
func New(cfg Config, store Storage, logger *slog.Logger) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	if cfg.RateWindow <= 0 {
		cfg.RateWindow = time.Minute
	}
	if cfg.AuthRateLimit <= 0 {
		cfg.AuthRateLimit = cfg.RateLimit
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	metrics := middleware.NewMetrics()
	limits := middleware.NewRateLimits(logger, []middleware.PathRateLimit{
		{Path: "/api/v1/auth/login", Rate: cfg.AuthRateLimit, Window: cfg.RateWindow},
		{Path: "/api/v1/auth/register", Rate: cfg.AuthRateLimit, Window: cfg.RateWindow},
	}, cfg.RateLimit, cfg.RateWindow, metrics.ObserveRateLimited)

	tokens := jwt.NewService(cfg.JWTSecret, cfg.TokenTTL)

	mux := http.NewServeMux()
	registerRoutes(mux, routeDeps{
		logger:  logger,
		storage: store,
		tokens:  tokens,
		metrics: metrics,
		admins:  cfg.Admins,
		version: cfg.Version,
	})

	// порядок: recovery снаружи, чтобы паника в любом middleware давала 500
	var handler http.Handler = mux
	if cfg.RateLimit > 0 {
		handler = limits.Middleware(handler)
	}
	handler = middleware.LoggingMiddleware(logger, "/health", "/metrics")(handler)
	handler = metrics.Middleware(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	return &Server{
		logger:  logger,
		storage: store,
		limits:  limits,
		cfg:     cfg,
		http: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}, nil
}

type routeDeps struct {
	logger  *slog.Logger
	storage Storage
	tokens  *jwt.Service
	metrics *middleware.Metrics
	version string
	admins  []string
}

func registerRoutes(mux *http.ServeMux, deps routeDeps) {
	authHandler := handlers.NewAuthHandler(deps.logger, deps.storage, deps.storage, deps.tokens, deps.admins)
	cartHandler := handlers.NewCartHandler(deps.logger, deps.storage, deps.metrics)
	itemHandler := handlers.NewItemHandler(deps.logger, deps.storage)
	healthHandler := handlers.NewHealthHandler(deps.logger, deps.storage, deps.version)

	authed := middleware.AuthMiddleware(deps.logger, deps.tokens, deps.storage)
	admin := func(h http.HandlerFunc) http.Handler {
		return authed(middleware.RequireRole(deps.logger, models.RoleAdministrator)(h))
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return authed(h)
	}

	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.Handle("GET /metrics", deps.metrics.Handler())

	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.Handle("POST /api/v1/auth/logout", protected(authHandler.Logout))

	mux.Handle("GET /api/v1/cart/{user_id}", protected(cartHandler.GetCart))
	mux.Handle("POST /api/v1/cart/{user_id}/add", protected(cartHandler.AddLine))
	mux.Handle("POST /api/v1/cart/{user_id}/remove", protected(cartHandler.RemoveLine))
	mux.Handle("POST /api/v1/cart/{user_id}/checkout", protected(cartHandler.Checkout))
	mux.Handle("GET /api/v1/cart/{user_id}/enabled", protected(cartHandler.GetEnabled))
	mux.Handle("POST /api/v1/cart/{user_id}/enable", admin(cartHandler.Enable))
	mux.Handle("POST /api/v1/cart/{user_id}/disable", admin(cartHandler.Disable))

	mux.Handle("GET /api/v1/items/{item_id}", protected(itemHandler.GetItem))
}

// Handler корневой обработчик со всеми middleware
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run слушает Addr до отмены ctx, затем выполняет graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve обслуживает запросы на listener до отмены ctx
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	defer s.limits.Stop()

	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	defer stopCleanup()
	go s.cleanupRevocations(cleanupCtx, defaultRevocationCleanup)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", listener.Addr().String(), "version", s.cfg.Version)
		errCh <- s.http.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// cleanupRevocations удаляет отзывы токенов, срок которых уже истек
func (s *Server) cleanupRevocations(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.storage.DeleteExpiredRevocations(ctx)
			if err != nil {
				s.logger.Error("failed to cleanup revoked tokens", "error", err)
				continue
			}
			if deleted > 0 {
				s.logger.Debug("revoked tokens cleaned up", "count", deleted)
			}
		}
	}
}
