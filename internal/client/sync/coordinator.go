// Package sync reconciles the local cart with the remote authoritative cart.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/cartkeeper/internal/client/cart"
	"github.com/iudanet/cartkeeper/internal/client/normalize"
	"github.com/iudanet/cartkeeper/internal/models"
)

//go:generate moq -out coordinator_mock.go . Coordinator
//go:generate moq -out api_mock.go . APIClient
//go:generate moq -out cache_mock.go . SnapshotCache

// Coordinator определяет интерфейс синхронизации корзины
type Coordinator interface {
	// SyncForIdentity загружает удаленную корзину identity и сливает ее с локальной.
	// Store должен принадлежать identity (после Reset), иначе ErrStaleSession.
	SyncForIdentity(ctx context.Context, id models.Identity) (*Result, error)

	// Refresh синхронизирует корзину активной identity
	Refresh(ctx context.Context) (*Result, error)

	// LoadCached показывает сохраненный снапшот до первой синхронизации.
	// Возвращает false, если кэша нет или Store уже не пуст.
	LoadCached(ctx context.Context, id models.Identity) (bool, error)
}

// APIClient удаленный сервис корзин
type APIClient interface {
	GetCart(ctx context.Context, identityID string) (normalize.CartPayload, error)
	GetCartEnabled(ctx context.Context, identityID string) (models.CartFlag, error)
}

// SnapshotCache LocalCartCache с точки зрения синхронизации
type SnapshotCache interface {
	Load(ctx context.Context, identityID string) (models.CartSnapshot, bool, error)
	SaveFlag(ctx context.Context, identityID string, flag models.CartFlag) error
}

// Hydrator заполняет метаданные строк из каталога
type Hydrator interface {
	Hydrate(ctx context.Context, lines []models.CartLine) []models.CartLine
}

// IdentitySource отдает активную identity
type IdentitySource interface {
	Current() (models.Identity, bool)
}

// Result итог синхронизации
type Result struct {
	Flag        models.CartFlag
	Added       int  // строки, которых не было локально
	Updated     int  // строки, измененные сервером
	Removed     int  // локальные строки, которых нет на сервере
	KeptPending int  // локальные строки с незавершенной мутацией
	NotFound    bool // сервер не знает корзину, принята пустая
}

type coordinator struct {
	api        APIClient
	cache      SnapshotCache
	hydrator   Hydrator
	identities IdentitySource
	store      *cart.Store
	gate       *cart.Gate
	logger     *slog.Logger
	// mu сериализует синхронизации
	mu sync.Mutex
}

// NewCoordinator creates a coordinator. hydrator may be nil.
func NewCoordinator(
	api APIClient,
	store *cart.Store,
	gate *cart.Gate,
	cache SnapshotCache,
	hydrator Hydrator,
	identities IdentitySource,
	logger *slog.Logger,
) Coordinator {
	return &coordinator{
		api:        api,
		store:      store,
		gate:       gate,
		cache:      cache,
		hydrator:   hydrator,
		identities: identities,
		logger:     logger,
	}
}

func (c *coordinator) Refresh(ctx context.Context) (*Result, error) {
	id, ok := c.identities.Current()
	if !ok {
		return nil, models.ErrNoIdentity
	}
	return c.SyncForIdentity(ctx, id)
}

func (c *coordinator) SyncForIdentity(ctx context.Context, id models.Identity) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	owner, gen := c.store.Session()
	if owner != id.ID {
		return nil, fmt.Errorf("sync for %s while store belongs to %q: %w", id.ID, owner, models.ErrStaleSession)
	}

	if id.IsAdmin() {
		// администратору корзина не нужна, сервер не вызываем
		c.gate.SetRemoteFlag(id.ID, models.FlagDisabled)
		if _, err := c.store.Replace(ctx, gen, models.NewSnapshot(false)); err != nil {
			return nil, err
		}
		c.logger.Debug("Cart disabled for administrator", "user_id", id.ID)
		return &Result{Flag: models.FlagDisabled}, nil
	}

	c.logger.Info("Starting cart synchronization", "user_id", id.ID)

	result := &Result{}
	payload, err := c.api.GetCart(ctx, id.ID)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrNotFound):
		// у пользователя еще нет корзины
		result.NotFound = true
		payload = normalize.CartPayload{Flag: models.FlagEnabled}
	case errors.Is(err, models.ErrRemoteForbidden):
		return c.applyDisabled(ctx, id, gen)
	default:
		return nil, c.degrade(ctx, id, err)
	}

	flag := payload.Flag
	if flag == models.FlagUnknown {
		flag = c.fetchFlag(ctx, id)
	}
	result.Flag = flag

	lines := payload.Lines
	if c.hydrator != nil {
		lines = c.hydrator.Hydrate(ctx, lines)
	}

	snap, err := c.store.Modify(ctx, gen, func(cur *models.CartSnapshot) bool {
		merged, stats := Merge(*cur, lines, flag == models.FlagEnabled)
		result.Added, result.Updated = stats.Added, stats.Updated
		result.Removed, result.KeptPending = stats.Removed, stats.KeptPending
		*cur = merged
		return true
	})
	if err != nil {
		return nil, err
	}

	c.gate.SetRemoteFlag(id.ID, flag)
	c.saveFlag(ctx, id, gen, flag)

	c.logger.Info("Cart synchronization completed",
		"user_id", id.ID,
		"flag", flag.String(),
		"items", snap.TotalItems,
		"added", result.Added,
		"updated", result.Updated,
		"removed", result.Removed,
		"kept_pending", result.KeptPending)

	return result, nil
}

func (c *coordinator) LoadCached(ctx context.Context, id models.Identity) (bool, error) {
	owner, gen := c.store.Session()
	if owner != id.ID {
		return false, fmt.Errorf("load cache for %s while store belongs to %q: %w", id.ID, owner, models.ErrStaleSession)
	}
	if id.IsAdmin() {
		return false, nil
	}

	cached, ok, err := c.cache.Load(ctx, id.ID)
	if err != nil {
		return false, fmt.Errorf("failed to load cached cart: %w", err)
	}
	if !ok {
		return false, nil
	}

	// флаг из кэша устарел: доступность определит синхронизация
	enabled := c.gate.RemoteFlag(id.ID) == models.FlagEnabled

	applied := false
	_, err = c.store.Modify(ctx, gen, func(cur *models.CartSnapshot) bool {
		if len(cur.Lines) > 0 {
			return false
		}
		*cur = cached.Clone()
		cur.Enabled = enabled
		applied = true
		return true
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// fetchFlag запрашивает флаг отдельно; любая неоднозначность дает FlagUnknown
func (c *coordinator) fetchFlag(ctx context.Context, id models.Identity) models.CartFlag {
	flag, err := c.api.GetCartEnabled(ctx, id.ID)
	if err != nil {
		c.logger.Warn("Failed to get cart flag, mutations blocked",
			"user_id", id.ID,
			"error", err)
		return models.FlagUnknown
	}
	return flag
}

// applyDisabled: сервер отказал в доступе к корзине. Строки остаются для
// просмотра, мутации блокируются.
func (c *coordinator) applyDisabled(ctx context.Context, id models.Identity, gen uint64) (*Result, error) {
	c.gate.SetRemoteFlag(id.ID, models.FlagDisabled)
	if _, err := c.LoadCached(ctx, id); err != nil && !errors.Is(err, models.ErrStaleSession) {
		c.logger.Warn("Failed to load cached cart", "user_id", id.ID, "error", err)
	}
	if err := c.store.SetEnabled(ctx, gen, false); err != nil {
		return nil, err
	}
	c.saveFlag(ctx, id, gen, models.FlagDisabled)
	c.logger.Info("Cart is disabled by the server", "user_id", id.ID)
	return &Result{Flag: models.FlagDisabled}, nil
}

// saveFlag сохраняет флаг, пока поколение Store не сменилось: после выхода
// кэш уже очищен и не должен появляться снова
func (c *coordinator) saveFlag(ctx context.Context, id models.Identity, gen uint64, flag models.CartFlag) {
	if c.store.Generation() != gen {
		c.logger.Debug("Cart flag dropped after identity change", "user_id", id.ID)
		return
	}
	if err := c.cache.SaveFlag(ctx, id.ID, flag); err != nil {
		c.logger.Warn("Failed to persist cart flag", "user_id", id.ID, "error", err)
	}
}

// degrade оставляет последнее известное состояние и возвращает повторяемую ошибку
func (c *coordinator) degrade(ctx context.Context, id models.Identity, cause error) error {
	c.logger.Warn("Cart synchronization failed, keeping last known cart",
		"user_id", id.ID,
		"error", cause)

	if _, err := c.LoadCached(ctx, id); err != nil {
		c.logger.Warn("Failed to load cached cart", "user_id", id.ID, "error", err)
	}

	if errors.Is(cause, models.ErrTransientRemote) {
		return fmt.Errorf("sync cart: %w", cause)
	}
	return fmt.Errorf("sync cart: %w: %w", models.ErrTransientRemote, cause)
}
