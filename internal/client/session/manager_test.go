package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/cartkeeper/internal/client/auth"
	"github.com/iudanet/cartkeeper/internal/client/broadcast"
	"github.com/iudanet/cartkeeper/internal/client/cache"
	"github.com/iudanet/cartkeeper/internal/client/cart"
	"github.com/iudanet/cartkeeper/internal/client/catalog"
	"github.com/iudanet/cartkeeper/internal/client/identity"
	"github.com/iudanet/cartkeeper/internal/client/mutation"
	"github.com/iudanet/cartkeeper/internal/client/normalize"
	"github.com/iudanet/cartkeeper/internal/client/storage/memory"
	cartsync "github.com/iudanet/cartkeeper/internal/client/sync"
	"github.com/iudanet/cartkeeper/internal/models"
	"github.com/iudanet/cartkeeper/pkg/api"
)

var (
	alice = models.Identity{ID: "alice", Role: models.RoleShopper}
	bob   = models.Identity{ID: "bob", Role: models.RoleShopper}
	root  = models.Identity{ID: "root", Role: models.RoleAdministrator}
)

func line(itemID string, qty, stock int) models.CartLine {
	return models.CartLine{
		ItemID:      itemID,
		Title:       "Item " + itemID,
		UnitPrice:   decimal.NewFromInt(10),
		Quantity:    qty,
		CachedStock: stock,
	}
}

// remoteCarts корзины на "сервере"
type remoteCarts struct {
	carts map[string][]models.CartLine
	mu    sync.Mutex
}

func (r *remoteCarts) set(identityID string, lines ...models.CartLine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[identityID] = lines
}

func (r *remoteCarts) get(_ context.Context, identityID string) (normalize.CartPayload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines, ok := r.carts[identityID]
	if !ok {
		return normalize.CartPayload{}, fmt.Errorf("cart: %w", models.ErrNotFound)
	}
	return normalize.CartPayload{Lines: append([]models.CartLine(nil), lines...), Flag: models.FlagEnabled}, nil
}

type env struct {
	m          *Manager
	remote     *remoteCarts
	syncAPI    *cartsync.APIClientMock
	mutations  *mutation.RemoteCartMock
	cartRemote *RemoteCartMock
	authSvc    *auth.ServiceMock
	cache      *cache.Cache
	store      *cart.Store
	stocks     *broadcast.Broadcast
	identities *identity.Context
}

func newEnv(t *testing.T) *env {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	e := &env{
		remote: &remoteCarts{carts: make(map[string][]models.CartLine)},
		mutations: &mutation.RemoteCartMock{
			AddLineFunc: func(context.Context, string, string, int, string) (normalize.MutationResult, error) {
				return normalize.MutationResult{NewStock: 4, StockKnown: true}, nil
			},
			RemoveLineFunc: func(context.Context, string, string, int, string) (normalize.MutationResult, error) {
				return normalize.MutationResult{NewStock: 6, StockKnown: true}, nil
			},
		},
		cartRemote: &RemoteCartMock{},
		authSvc:    &auth.ServiceMock{},
		cache:      cache.New(memory.NewKV()),
		identities: identity.NewContext(),
	}
	e.syncAPI = &cartsync.APIClientMock{GetCartFunc: e.remote.get}

	e.store = cart.NewStore(e.cache, logger)
	e.stocks = broadcast.New(logger)
	gate := cart.NewGate(e.identities)
	items := catalog.New(&catalog.ItemSourceMock{
		GetItemFunc: func(ctx context.Context, itemID string) (models.Item, error) {
			return models.Item{}, models.ErrNotFound
		},
	}, e.stocks, logger)

	e.m = New(Deps{
		Auth:        e.authSvc,
		Remote:      e.cartRemote,
		Cache:       e.cache,
		Items:       items,
		Coordinator: cartsync.NewCoordinator(e.syncAPI, e.store, gate, e.cache, items, e.identities, logger),
		Identities:  e.identities,
		Store:       e.store,
		Gate:        gate,
		Controller:  mutation.NewController(e.mutations, e.store, gate, items, e.stocks, logger),
		Stocks:      e.stocks,
		Logger:      logger,
	})
	t.Cleanup(e.m.Close)
	return e
}

func (e *env) switchTo(t *testing.T, id models.Identity) *cartsync.Result {
	t.Helper()
	e.identities.Switch(id)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := e.m.Wait(ctx)
	require.NoError(t, err)
	return res
}

func TestManager_LoginPaintsCacheThenSyncs(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	cached := models.SnapshotFromLines(true, []models.CartLine{line("old", 2, 9)})
	require.NoError(t, e.cache.Save(ctx, alice.ID, cached))

	release := make(chan struct{})
	e.syncAPI.GetCartFunc = func(ctx context.Context, identityID string) (normalize.CartPayload, error) {
		<-release
		return e.remote.get(ctx, identityID)
	}
	e.remote.set(alice.ID, line("a", 1, 5))

	e.authSvc.LoginFunc = func(ctx context.Context, username, password string) (*auth.LoginResult, error) {
		return &auth.LoginResult{Identity: alice, Username: username}, nil
	}

	res, err := e.m.Login(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, alice, res.Identity)

	// до ответа сервера виден кэш, мутации заблокированы
	snap := e.m.Snapshot()
	assert.Contains(t, snap.Lines, "old")
	assert.False(t, snap.Enabled)
	assert.False(t, e.m.CartEnabled())

	close(release)
	result, err := e.m.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.FlagEnabled, result.Flag)

	snap = e.m.Snapshot()
	assert.Equal(t, []string{"a"}, snap.Order)
	assert.True(t, snap.Enabled)
	assert.True(t, e.m.CartEnabled())
}

func TestManager_SwitchNeverShowsPreviousLines(t *testing.T) {
	e := newEnv(t)
	e.remote.set(alice.ID, line("a", 1, 5))
	e.remote.set(bob.ID, line("b", 3, 5))

	e.switchTo(t, alice)
	require.Contains(t, e.m.Snapshot().Lines, "a")

	var (
		mu   sync.Mutex
		seen []models.CartSnapshot
	)
	unsubscribe := e.store.Subscribe(func(s models.CartSnapshot) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})
	defer unsubscribe()

	e.switchTo(t, bob)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	for _, s := range seen {
		assert.NotContains(t, s.Lines, "a")
	}
	assert.Equal(t, []string{"b"}, e.m.Snapshot().Order)
	assert.Equal(t, bob.ID, e.store.Owner())
}

func TestManager_ScopesClosedOnSwitch(t *testing.T) {
	e := newEnv(t)
	e.remote.set(alice.ID, line("a", 1, 5))
	e.remote.set(bob.ID)
	e.switchTo(t, alice)

	var (
		mu          sync.Mutex
		cartCalls   int
		stockEvents int
	)
	sc := e.m.NewScope()
	sc.OnCart(func(models.CartSnapshot) {
		mu.Lock()
		cartCalls++
		mu.Unlock()
	})
	sc.OnStock(broadcast.Wildcard, func(models.StockEvent) {
		mu.Lock()
		stockEvents++
		mu.Unlock()
	})
	assert.Equal(t, 2, e.stocks.Subscribers())

	e.stocks.Publish("a", 3)
	mu.Lock()
	assert.Equal(t, 1, stockEvents)
	assert.Equal(t, 1, cartCalls, "stock update changes the line")
	mu.Unlock()

	e.switchTo(t, bob)

	assert.True(t, sc.Closed())
	select {
	case <-sc.Done():
	default:
		t.Fatal("scope must be closed")
	}
	assert.Equal(t, 1, e.stocks.Subscribers())

	e.stocks.Publish("a", 1)
	mu.Lock()
	assert.Equal(t, 1, stockEvents)
	assert.Equal(t, 1, cartCalls)
	mu.Unlock()

	// подписки в закрытый scope игнорируются
	sc.OnStock("a", func(models.StockEvent) {})
	assert.Equal(t, 1, e.stocks.Subscribers())
}

func TestManager_StockBroadcastUpdatesStore(t *testing.T) {
	e := newEnv(t)
	e.remote.set(alice.ID, line("a", 1, 5))
	e.switchTo(t, alice)

	e.stocks.Publish("a", 7)

	got, ok := e.m.Snapshot().Line("a")
	require.True(t, ok)
	assert.Equal(t, 7, got.CachedStock)
}

func TestManager_AddOne(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.remote.set(alice.ID, line("a", 1, 5))
	e.switchTo(t, alice)

	require.NoError(t, e.m.AddOne(ctx, "a"))

	got, ok := e.m.Snapshot().Line("a")
	require.True(t, ok)
	assert.Equal(t, 2, got.Quantity)
	assert.False(t, got.Pending)
	assert.Equal(t, 4, got.CachedStock)
	assert.Equal(t, mutation.StateConfirmed, e.m.MutationState("a"))
	assert.Len(t, e.syncAPI.GetCartCalls(), 1)
}

func TestManager_ConflictTriggersResync(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.remote.set(alice.ID, line("a", 1, 5))
	e.switchTo(t, alice)

	e.mutations.AddLineFunc = func(context.Context, string, string, int, string) (normalize.MutationResult, error) {
		// пока мы добавляли, кто-то забрал товар; сервер уже знает другое количество
		e.remote.set(alice.ID, line("a", 1, 1))
		return normalize.MutationResult{NewStock: 0, StockKnown: true}, fmt.Errorf("add: %w", models.ErrConflict)
	}

	err := e.m.AddOne(ctx, "a")
	require.ErrorIs(t, err, models.ErrConflict)
	assert.Len(t, e.syncAPI.GetCartCalls(), 2)

	got, ok := e.m.Snapshot().Line("a")
	require.True(t, ok)
	assert.Equal(t, 1, got.Quantity)
	assert.False(t, got.Pending)
}

func TestManager_ValidationDoesNotResync(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.remote.set(alice.ID, line("a", 5, 5))
	e.switchTo(t, alice)

	err := e.m.AddOne(ctx, "a")
	require.ErrorIs(t, err, models.ErrInsufficientStock)
	assert.Empty(t, e.mutations.AddLineCalls())
	assert.Len(t, e.syncAPI.GetCartCalls(), 1)
}

func TestManager_Checkout(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.remote.set(alice.ID, line("a", 2, 5), line("b", 1, 5))
	e.switchTo(t, alice)

	e.cartRemote.CheckoutFunc = func(ctx context.Context, identityID string) (*api.CheckoutResponse, error) {
		e.remote.set(identityID)
		return &api.CheckoutResponse{OrderID: "order-1", Total: "30", Items: 3}, nil
	}

	resp, err := e.m.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, "order-1", resp.OrderID)
	require.Len(t, e.cartRemote.CheckoutCalls(), 1)
	assert.Equal(t, alice.ID, e.cartRemote.CheckoutCalls()[0].IdentityID)

	snap := e.m.Snapshot()
	assert.Equal(t, 0, snap.TotalItems)
	assert.Len(t, e.syncAPI.GetCartCalls(), 2)

	// пустую корзину оформить нельзя
	_, err = e.m.Checkout(ctx)
	require.ErrorIs(t, err, models.ErrValidation)
	assert.Len(t, e.cartRemote.CheckoutCalls(), 1)
}

func TestManager_CheckoutRequiresEnabledCart(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.switchTo(t, root)

	_, err := e.m.Checkout(ctx)
	require.ErrorIs(t, err, models.ErrNotShopper)
	assert.Empty(t, e.cartRemote.CheckoutCalls())
}

func TestManager_SetCartEnabled(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.cartRemote.SetCartEnabledFunc = func(ctx context.Context, identityID string, enabled bool) error {
		return nil
	}

	err := e.m.SetCartEnabled(ctx, "alice", false)
	require.ErrorIs(t, err, models.ErrNoIdentity)

	e.remote.set(alice.ID)
	e.switchTo(t, alice)
	err = e.m.SetCartEnabled(ctx, "bob", false)
	require.ErrorIs(t, err, ErrNotAdmin)

	e.switchTo(t, root)
	require.NoError(t, e.m.SetCartEnabled(ctx, "alice", false))
	calls := e.cartRemote.SetCartEnabledCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "alice", calls[0].IdentityID)
	assert.False(t, calls[0].Enabled)
}

func TestManager_AdminHasNoCart(t *testing.T) {
	e := newEnv(t)

	res := e.switchTo(t, root)
	assert.Equal(t, models.FlagDisabled, res.Flag)
	assert.Empty(t, e.syncAPI.GetCartCalls())
	assert.False(t, e.m.CartEnabled())
	assert.Empty(t, e.m.Snapshot().Lines)
}

func TestManager_RestoreAndLogout(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.remote.set(alice.ID, line("a", 1, 5))

	e.authSvc.RestoreFunc = func(ctx context.Context) (models.Identity, error) {
		return alice, nil
	}
	e.authSvc.LogoutFunc = func(ctx context.Context) error {
		return nil
	}

	id, err := e.m.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, alice, id)
	_, err = e.m.Wait(ctx)
	require.NoError(t, err)
	require.Contains(t, e.m.Snapshot().Lines, "a")

	require.NoError(t, e.m.Logout(ctx))
	assert.Len(t, e.authSvc.LogoutCalls(), 1)

	_, ok := e.m.Current()
	assert.False(t, ok)
	assert.Empty(t, e.m.Snapshot().Lines)
	assert.Empty(t, e.store.Owner())

	_, err = e.m.Wait(ctx)
	assert.ErrorIs(t, err, models.ErrNoIdentity)

	err = e.m.AddOne(ctx, "a")
	assert.ErrorIs(t, err, models.ErrNoIdentity)
}

func TestManager_LogoutDuringInFlightAddOne(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.remote.set(alice.ID, line("a", 1, 5))
	e.switchTo(t, alice)

	started := make(chan struct{})
	release := make(chan struct{})
	e.mutations.AddLineFunc = func(context.Context, string, string, int, string) (normalize.MutationResult, error) {
		close(started)
		<-release
		return normalize.MutationResult{NewStock: 4, StockKnown: true}, nil
	}

	addErr := make(chan error, 1)
	go func() { addErr <- e.m.AddOne(ctx, "a") }()
	<-started

	// pending-строка уже в кэше
	_, ok, err := e.cache.Load(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, ok)

	e.authSvc.LogoutFunc = func(ctx context.Context) error {
		if err := e.cache.Clear(ctx, alice.ID); err != nil {
			return err
		}
		// ответ сервера приходит уже после очистки кэша
		close(release)
		select {
		case err := <-addErr:
			addErr <- err
		case <-time.After(5 * time.Second):
			t.Error("AddOne did not finish")
		}
		return nil
	}

	require.NoError(t, e.m.Logout(ctx))

	assert.ErrorIs(t, <-addErr, models.ErrStaleSession)

	_, ok, err = e.cache.Load(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok, "logged out cart must not be persisted again")

	flag, err := e.cache.LoadFlag(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FlagUnknown, flag)

	assert.Empty(t, e.m.Snapshot().Lines)
	assert.Empty(t, e.store.Owner())
}

func TestManager_LogoutCancelsRunningSync(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	syncStarted := make(chan struct{})
	e.syncAPI.GetCartFunc = func(ctx context.Context, identityID string) (normalize.CartPayload, error) {
		close(syncStarted)
		<-ctx.Done()
		return normalize.CartPayload{}, fmt.Errorf("get cart: %w", ctx.Err())
	}
	e.authSvc.LogoutFunc = func(ctx context.Context) error {
		return e.cache.Clear(ctx, alice.ID)
	}

	e.identities.Switch(alice)
	<-syncStarted

	done := make(chan error, 1)
	go func() { done <- e.m.Logout(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("logout must not wait for a hung sync")
	}

	flag, err := e.cache.LoadFlag(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FlagUnknown, flag)
	assert.Len(t, e.authSvc.LogoutCalls(), 1)
}

func TestManager_RestoreWithoutSession(t *testing.T) {
	e := newEnv(t)
	e.authSvc.RestoreFunc = func(ctx context.Context) (models.Identity, error) {
		return models.Identity{}, auth.ErrNotAuthenticated
	}

	_, err := e.m.Restore(context.Background())
	require.ErrorIs(t, err, auth.ErrNotAuthenticated)
	_, ok := e.m.Current()
	assert.False(t, ok)
}

func TestManager_SyncFailureKeepsCache(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	cached := models.SnapshotFromLines(true, []models.CartLine{line("a", 2, 5)})
	require.NoError(t, e.cache.Save(ctx, alice.ID, cached))
	e.syncAPI.GetCartFunc = func(ctx context.Context, identityID string) (normalize.CartPayload, error) {
		return normalize.CartPayload{}, fmt.Errorf("get cart: %w", models.ErrTransientRemote)
	}

	e.identities.Switch(alice)
	_, err := e.m.Wait(ctx)
	require.ErrorIs(t, err, models.ErrTransientRemote)

	got, ok := e.m.Snapshot().Line("a")
	require.True(t, ok)
	assert.Equal(t, 2, got.Quantity)
}
