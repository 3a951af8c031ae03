// Package session wires the cart core together and drives it through
// identity changes.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/cartkeeper/internal/client/auth"
	"github.com/iudanet/cartkeeper/internal/client/broadcast"
	"github.com/iudanet/cartkeeper/internal/client/cart"
	"github.com/iudanet/cartkeeper/internal/client/identity"
	"github.com/iudanet/cartkeeper/internal/client/mutation"
	cartsync "github.com/iudanet/cartkeeper/internal/client/sync"
	"github.com/iudanet/cartkeeper/internal/models"
	"github.com/iudanet/cartkeeper/pkg/api"
)

// ErrNotAdmin операция доступна только администратору
var ErrNotAdmin = errors.New("administrator role required")

//go:generate moq -out remote_mock.go . RemoteCart

// RemoteCart операции сервера, которые не проходят через оптимистичный контур
type RemoteCart interface {
	Checkout(ctx context.Context, identityID string) (*api.CheckoutResponse, error)
	SetCartEnabled(ctx context.Context, identityID string, enabled bool) error
}

// CacheCleaner удаляет LocalCartCache identity
type CacheCleaner interface {
	Clear(ctx context.Context, identityID string) error
}

// ItemInvalidator сбрасывает закэшированные данные товара
type ItemInvalidator interface {
	Invalidate(itemID string)
}

// Deps компоненты, из которых собирается Manager
type Deps struct {
	Auth        auth.Service
	Remote      RemoteCart
	Cache       CacheCleaner
	Items       ItemInvalidator
	Coordinator cartsync.Coordinator
	Identities  *identity.Context
	Store       *cart.Store
	Gate        *cart.Gate
	Controller  *mutation.Controller
	Stocks      *broadcast.Broadcast
	Logger      *slog.Logger
}

// syncRun синхронизация, запущенная сменой identity
type syncRun struct {
	cancel     context.CancelFunc
	done       chan struct{}
	result     *cartsync.Result
	err        error
	identityID string
}

// Manager клиентская сессия корзины
type Manager struct {
	deps      Deps
	ctx       context.Context
	cancel    context.CancelFunc
	run       *syncRun
	scopes    map[*Scope]struct{}
	unsubs    []func()
	wg        sync.WaitGroup
	mu        sync.Mutex
	closeOnce sync.Once
}

// New собирает Manager и подписывает его на identity и остатки.
// Если identity уже активна, сразу запускается синхронизация.
func New(deps Deps) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		deps:   deps,
		ctx:    ctx,
		cancel: cancel,
		scopes: make(map[*Scope]struct{}),
	}

	tok := deps.Stocks.Subscribe(broadcast.Wildcard, func(ev models.StockEvent) {
		deps.Store.ApplyStock(m.ctx, ev.ItemID, ev.NewStock)
	})
	m.unsubs = append(m.unsubs,
		func() { deps.Stocks.Unsubscribe(tok) },
		deps.Identities.Subscribe(m.onIdentityChange),
	)

	if id, ok := deps.Identities.Current(); ok {
		m.onIdentityChange(nil, &id)
	}
	return m
}

// onIdentityChange: закрыть scopes, сбросить Store, показать кэш, запустить синхронизацию.
// Вызывается синхронно из identity.Context.
func (m *Manager) onIdentityChange(prev, next *models.Identity) {
	m.closeScopes()

	// синхронизация прежней identity больше не нужна
	m.mu.Lock()
	if m.run != nil {
		m.run.cancel()
	}
	m.mu.Unlock()

	owner := ""
	if next != nil {
		owner = next.ID
	}
	m.deps.Store.Reset(owner)

	if prev != nil {
		m.deps.Gate.Forget(prev.ID)
	}

	if next == nil {
		m.mu.Lock()
		m.run = nil
		m.mu.Unlock()
		m.deps.Logger.Debug("Identity cleared, cart reset")
		return
	}

	id := *next
	if _, err := m.deps.Coordinator.LoadCached(m.ctx, id); err != nil {
		m.deps.Logger.Warn("Failed to load cached cart", "user_id", id.ID, "error", err)
	}

	runCtx, cancel := context.WithCancel(m.ctx)
	run := &syncRun{identityID: id.ID, cancel: cancel, done: make(chan struct{})}
	m.mu.Lock()
	m.run = run
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer close(run.done)
		defer cancel()

		run.result, run.err = m.deps.Coordinator.SyncForIdentity(runCtx, id)
		if errors.Is(run.err, models.ErrStaleSession) || errors.Is(run.err, context.Canceled) {
			m.deps.Logger.Debug("Sync dropped after identity change", "user_id", id.ID)
			return
		}
		if run.err != nil {
			m.deps.Logger.Warn("Initial cart sync failed", "user_id", id.ID, "error", run.err)
		}
	}()
}

// Wait ждет синхронизацию, запущенную последней сменой identity
func (m *Manager) Wait(ctx context.Context) (*cartsync.Result, error) {
	m.mu.Lock()
	run := m.run
	m.mu.Unlock()

	if run == nil {
		return nil, models.ErrNoIdentity
	}

	select {
	case <-run.done:
		return run.result, run.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Login входит под пользователем и делает его активной identity.
// Синхронизация идет в фоне, дождаться ее можно через Wait.
func (m *Manager) Login(ctx context.Context, username, password string) (*auth.LoginResult, error) {
	res, err := m.deps.Auth.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	m.deps.Identities.Switch(res.Identity)
	return res, nil
}

// Restore восстанавливает сохраненную сессию
func (m *Manager) Restore(ctx context.Context) (models.Identity, error) {
	id, err := m.deps.Auth.Restore(ctx)
	if err != nil {
		return models.Identity{}, err
	}
	m.deps.Identities.Switch(id)
	return id, nil
}

// Logout завершает сессию и очищает корзину.
// Identity сбрасывается до очистки кэша: завершения запросов старой сессии
// получают ErrStaleSession и ничего не сохраняют.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	run := m.run
	m.mu.Unlock()

	m.deps.Identities.Clear()
	if run != nil {
		select {
		case <-run.done:
		case <-ctx.Done():
		}
	}
	return m.deps.Auth.Logout(ctx)
}

// Current returns the active identity.
func (m *Manager) Current() (models.Identity, bool) {
	return m.deps.Identities.Current()
}

// Snapshot returns the current cart.
func (m *Manager) Snapshot() models.CartSnapshot {
	return m.deps.Store.Read()
}

// CartEnabled reports whether cart mutations are currently allowed.
func (m *Manager) CartEnabled() bool {
	return m.deps.Gate.IsEnabled()
}

// MutationState returns the state of the latest mutation of itemID.
func (m *Manager) MutationState(itemID string) mutation.State {
	return m.deps.Controller.State(itemID)
}

// Refresh синхронизирует корзину активной identity
func (m *Manager) Refresh(ctx context.Context) (*cartsync.Result, error) {
	return m.deps.Coordinator.Refresh(ctx)
}

// AddOne добавляет единицу товара
func (m *Manager) AddOne(ctx context.Context, itemID string) error {
	return m.afterMutation(ctx, itemID, m.deps.Controller.AddOne(ctx, itemID))
}

// RemoveOne убирает единицу товара
func (m *Manager) RemoveOne(ctx context.Context, itemID string) error {
	return m.afterMutation(ctx, itemID, m.deps.Controller.RemoveOne(ctx, itemID))
}

// afterMutation: после конфликта локальное состояние сверяется с сервером
func (m *Manager) afterMutation(ctx context.Context, itemID string, err error) error {
	if !errors.Is(err, models.ErrConflict) {
		return err
	}

	m.deps.Items.Invalidate(itemID)
	if _, syncErr := m.deps.Coordinator.Refresh(ctx); syncErr != nil {
		m.deps.Logger.Warn("Resync after conflict failed", "item_id", itemID, "error", syncErr)
	}
	return err
}

// Checkout оформляет заказ из текущей корзины
func (m *Manager) Checkout(ctx context.Context) (*api.CheckoutResponse, error) {
	if err := m.deps.Gate.Check(); err != nil {
		return nil, err
	}
	id, ok := m.deps.Identities.Current()
	if !ok {
		return nil, models.ErrNoIdentity
	}

	snap := m.deps.Store.Read()
	if snap.HasPending() {
		return nil, fmt.Errorf("checkout: %w", models.ErrMutationInProgress)
	}
	if snap.TotalItems == 0 {
		return nil, fmt.Errorf("%w: cart is empty", models.ErrValidation)
	}

	resp, err := m.deps.Remote.Checkout(ctx, id.ID)
	if err != nil {
		return nil, fmt.Errorf("checkout failed: %w", err)
	}

	m.deps.Logger.Info("Order placed", "user_id", id.ID, "order_id", resp.OrderID)

	// остатки изменились, кэш устарел
	for _, itemID := range snap.Order {
		m.deps.Items.Invalidate(itemID)
	}
	if err := m.deps.Cache.Clear(ctx, id.ID); err != nil {
		m.deps.Logger.Warn("Failed to clear cart cache", "user_id", id.ID, "error", err)
	}
	if _, err := m.deps.Coordinator.Refresh(ctx); err != nil {
		m.deps.Logger.Warn("Resync after checkout failed", "user_id", id.ID, "error", err)
	}
	return resp, nil
}

// SetCartEnabled включает или отключает корзину пользователя (только администратор)
func (m *Manager) SetCartEnabled(ctx context.Context, userID string, enabled bool) error {
	id, ok := m.deps.Identities.Current()
	if !ok {
		return models.ErrNoIdentity
	}
	if !id.IsAdmin() {
		return ErrNotAdmin
	}
	if err := m.deps.Remote.SetCartEnabled(ctx, userID, enabled); err != nil {
		return fmt.Errorf("failed to set cart flag: %w", err)
	}
	m.deps.Logger.Info("Cart flag changed", "user_id", userID, "enabled", enabled)
	return nil
}

// NewScope создает scope подписок для текущей identity
func (m *Manager) NewScope() *Scope {
	s := newScope(m.deps.Store, m.deps.Stocks)

	m.mu.Lock()
	m.scopes[s] = struct{}{}
	m.mu.Unlock()
	return s
}

func (m *Manager) closeScopes() {
	m.mu.Lock()
	scopes := m.scopes
	m.scopes = make(map[*Scope]struct{})
	m.mu.Unlock()

	for s := range scopes {
		s.Close()
	}
}

// Close снимает подписки и дожидается фоновых синхронизаций
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		for _, unsub := range m.unsubs {
			unsub()
		}
		m.closeScopes()
		m.cancel()
		m.wg.Wait()
	})
}
