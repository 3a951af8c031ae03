package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iudanet/cartkeeper/internal/client/api"
	"github.com/iudanet/cartkeeper/internal/client/auth"
	"github.com/iudanet/cartkeeper/internal/client/broadcast"
	"github.com/iudanet/cartkeeper/internal/client/cache"
	"github.com/iudanet/cartkeeper/internal/client/cart"
	"github.com/iudanet/cartkeeper/internal/client/catalog"
	"github.com/iudanet/cartkeeper/internal/client/config"
	"github.com/iudanet/cartkeeper/internal/client/identity"
	"github.com/iudanet/cartkeeper/internal/client/mutation"
	"github.com/iudanet/cartkeeper/internal/client/session"
	"github.com/iudanet/cartkeeper/internal/client/storage/boltdb"
	cartsync "github.com/iudanet/cartkeeper/internal/client/sync"
)

// app собранный клиент: локальное хранилище, сервисы и сессия
type app struct {
	storage *boltdb.Storage
	auth    auth.Service
	manager *session.Manager
}

func buildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	boltStorage, err := boltdb.New(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// токен берется из auth.Service, который сам использует apiClient
	var authService auth.Service
	apiClient := api.NewClient(cfg.Server, func(ctx context.Context) (string, error) {
		return authService.AccessToken(ctx)
	}, api.WithTimeout(cfg.RequestTimeout))

	cartCache := cache.New(boltStorage)
	authService = auth.NewService(apiClient, boltStorage, cartCache, logger)

	identities := identity.NewContext()
	store := cart.NewStore(cartCache, logger)
	gate := cart.NewGate(identities)
	stocks := broadcast.New(logger)
	items := catalog.New(apiClient, stocks, logger)

	manager := session.New(session.Deps{
		Auth:        authService,
		Remote:      apiClient,
		Cache:       cartCache,
		Items:       items,
		Coordinator: cartsync.NewCoordinator(apiClient, store, gate, cartCache, items, identities, logger),
		Identities:  identities,
		Store:       store,
		Gate:        gate,
		Controller:  mutation.NewController(apiClient, store, gate, items, stocks, logger),
		Stocks:      stocks,
		Logger:      logger,
	})

	return &app{
		storage: boltStorage,
		auth:    authService,
		manager: manager,
	}, nil
}

// Close останавливает сессию и закрывает базу
func (a *app) Close() error {
	a.manager.Close()
	return a.storage.Close()
}
