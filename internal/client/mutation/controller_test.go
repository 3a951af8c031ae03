package mutation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/cartkeeper/internal/client/broadcast"
	"github.com/iudanet/cartkeeper/internal/client/cart"
	"github.com/iudanet/cartkeeper/internal/client/identity"
	"github.com/iudanet/cartkeeper/internal/client/normalize"
	"github.com/iudanet/cartkeeper/internal/models"
)

var (
	alice = models.Identity{ID: "alice", Role: models.RoleShopper}
	bob   = models.Identity{ID: "bob", Role: models.RoleShopper}
	root  = models.Identity{ID: "root", Role: models.RoleAdministrator}
)

type fakeCatalog map[string]models.Item

func (f fakeCatalog) Lookup(_ context.Context, itemID string) (models.Item, error) {
	item, ok := f[itemID]
	if !ok {
		return models.Item{}, models.ErrNotFound
	}
	return item, nil
}

type fixture struct {
	ctrl       *Controller
	remote     *RemoteCartMock
	store      *cart.Store
	gate       *cart.Gate
	bus        *broadcast.Broadcast
	identities *identity.Context
}

func newFixture(t *testing.T, remote *RemoteCartMock, catalog fakeCatalog) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ids := identity.NewContext()
	store := cart.NewStore(nil, logger)
	gate := cart.NewGate(ids)
	bus := broadcast.New(logger)

	return &fixture{
		ctrl:       NewController(remote, store, gate, catalog, bus, logger),
		remote:     remote,
		store:      store,
		gate:       gate,
		bus:        bus,
		identities: ids,
	}
}

func (f *fixture) activate(id models.Identity, flag models.CartFlag) uint64 {
	f.identities.Switch(id)
	gen := f.store.Reset(id.ID)
	f.gate.SetRemoteFlag(id.ID, flag)
	return gen
}

// okRemote подтверждает любую мутацию с заданным остатком
func okRemote(stock int) *RemoteCartMock {
	res := normalize.MutationResult{NewStock: stock, StockKnown: true}
	return &RemoteCartMock{
		AddLineFunc: func(context.Context, string, string, int, string) (normalize.MutationResult, error) {
			return res, nil
		},
		RemoveLineFunc: func(context.Context, string, string, int, string) (normalize.MutationResult, error) {
			return res, nil
		},
	}
}

func failingRemote(err error) *RemoteCartMock {
	return &RemoteCartMock{
		AddLineFunc: func(context.Context, string, string, int, string) (normalize.MutationResult, error) {
			return normalize.MutationResult{}, err
		},
		RemoveLineFunc: func(context.Context, string, string, int, string) (normalize.MutationResult, error) {
			return normalize.MutationResult{}, err
		},
	}
}

func records() fakeCatalog {
	return fakeCatalog{
		"A": {ID: "A", Title: "Kind of Blue", UnitPrice: decimal.NewFromInt(10), Stock: 10},
		"B": {ID: "B", Title: "Blue Train", UnitPrice: decimal.RequireFromString("7.5"), Stock: 10},
		"Z": {ID: "Z", Title: "Sold out", UnitPrice: decimal.NewFromInt(1), Stock: 0},
	}
}

func seed(t *testing.T, f *fixture, gen uint64, lines ...models.CartLine) {
	t.Helper()
	_, err := f.store.Replace(context.Background(), gen, models.SnapshotFromLines(true, lines))
	require.NoError(t, err)
}

func TestController_AddOne(t *testing.T) {
	f := newFixture(t, okRemote(9), records())
	f.activate(alice, models.FlagEnabled)

	var events []models.StockEvent
	f.bus.Subscribe("A", func(ev models.StockEvent) { events = append(events, ev) })

	require.NoError(t, f.ctrl.AddOne(context.Background(), "A"))

	line, ok := f.store.Read().Line("A")
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity)
	assert.False(t, line.Pending)
	assert.Equal(t, 9, line.CachedStock)
	assert.Equal(t, "Kind of Blue", line.Title)
	assert.Equal(t, "10", f.store.Read().TotalPrice.String())

	assert.Equal(t, StateConfirmed, f.ctrl.State("A"))
	assert.Equal(t, []models.StockEvent{{ItemID: "A", NewStock: 9}}, events)

	calls := f.remote.AddLineCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "alice", calls[0].IdentityID)
	assert.Equal(t, 1, calls[0].Qty)
	assert.NotEmpty(t, calls[0].IdempotencyKey)
}

func TestController_NetQuantity(t *testing.T) {
	tests := []struct {
		name string
		ops  []int
		want int
	}{
		{name: "adds only", ops: []int{+1, +1, +1}, want: 3},
		{name: "adds and removes", ops: []int{+1, +1, -1, +1, -1}, want: 1},
		{name: "clamped at zero", ops: []int{+1, -1, -1, -1}, want: 0},
		{name: "remove on empty", ops: []int{-1, +1}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, okRemote(10), records())
			f.activate(alice, models.FlagEnabled)
			ctx := context.Background()

			for _, d := range tt.ops {
				if d > 0 {
					require.NoError(t, f.ctrl.AddOne(ctx, "A"))
				} else {
					require.NoError(t, f.ctrl.RemoveOne(ctx, "A"))
				}
			}

			line, ok := f.store.Read().Line("A")
			if tt.want == 0 {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, line.Quantity)
		})
	}
}

func TestController_RollbackRestoresSnapshot(t *testing.T) {
	base := []models.CartLine{
		{ItemID: "B", Quantity: 1, UnitPrice: decimal.RequireFromString("7.5"), CachedStock: 10},
		{ItemID: "A", Quantity: 1, UnitPrice: decimal.NewFromInt(10), CachedStock: 10},
		{ItemID: "C", Quantity: 2, UnitPrice: decimal.NewFromInt(3), CachedStock: 10},
	}

	tests := []struct {
		name   string
		itemID string
		add    bool
	}{
		{name: "add to existing line", itemID: "B", add: true},
		{name: "add new line", itemID: "Z2", add: true},
		{name: "remove from line with several units", itemID: "C"},
		{name: "remove last unit keeps position", itemID: "A"},
	}

	catalog := records()
	catalog["Z2"] = models.Item{ID: "Z2", UnitPrice: decimal.NewFromInt(4), Stock: 3}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, failingRemote(models.ErrTransientRemote), catalog)
			gen := f.activate(alice, models.FlagEnabled)
			seed(t, f, gen, base...)

			before := f.store.Read()

			var err error
			if tt.add {
				err = f.ctrl.AddOne(context.Background(), tt.itemID)
			} else {
				err = f.ctrl.RemoveOne(context.Background(), tt.itemID)
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrTransientRemote)

			assert.Equal(t, before, f.store.Read())
			assert.Equal(t, StateRolledBack, f.ctrl.State(tt.itemID))
		})
	}
}

func TestController_SecondMutationWhilePending(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	remote := &RemoteCartMock{
		AddLineFunc: func(context.Context, string, string, int, string) (normalize.MutationResult, error) {
			close(started)
			<-release
			return normalize.MutationResult{NewStock: 10, StockKnown: true}, nil
		},
	}
	f := newFixture(t, remote, records())
	f.activate(alice, models.FlagEnabled)

	done := make(chan error, 1)
	go func() {
		done <- f.ctrl.AddOne(context.Background(), "A")
	}()
	<-started

	assert.Equal(t, StatePending, f.ctrl.State("A"))
	line, _ := f.store.Read().Line("A")
	assert.True(t, line.Pending)

	err := f.ctrl.AddOne(context.Background(), "A")
	assert.ErrorIs(t, err, models.ErrMutationInProgress)
	err = f.ctrl.RemoveOne(context.Background(), "A")
	assert.ErrorIs(t, err, models.ErrMutationInProgress)

	close(release)
	require.NoError(t, <-done)

	line, _ = f.store.Read().Line("A")
	assert.Equal(t, 1, line.Quantity)
	assert.False(t, line.Pending)
	assert.Len(t, remote.AddLineCalls(), 1)
}

func TestController_StockConflictResolution(t *testing.T) {
	qty := 2
	remote := &RemoteCartMock{
		AddLineFunc: func(context.Context, string, string, int, string) (normalize.MutationResult, error) {
			return normalize.MutationResult{NewStock: 0, StockKnown: true, Quantity: &qty}, nil
		},
	}
	f := newFixture(t, remote, records())
	gen := f.activate(alice, models.FlagEnabled)
	seed(t, f, gen, models.CartLine{ItemID: "A", Quantity: 1, UnitPrice: decimal.NewFromInt(10), CachedStock: 3})

	require.NoError(t, f.ctrl.AddOne(context.Background(), "A"))

	line, _ := f.store.Read().Line("A")
	assert.Equal(t, 0, line.CachedStock)
	latest, ok := f.bus.Latest("A")
	require.True(t, ok)
	assert.Equal(t, 0, latest)

	err := f.ctrl.AddOne(context.Background(), "A")
	assert.ErrorIs(t, err, models.ErrInsufficientStock)
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Len(t, remote.AddLineCalls(), 1, "no remote call for a validation error")

	// остаток вырос - добавление снова разрешено
	f.bus.Publish("A", 5)
	require.NoError(t, f.ctrl.AddOne(context.Background(), "A"))
	assert.Len(t, remote.AddLineCalls(), 2)
}

func TestController_ConflictResponseAdoptsServerStock(t *testing.T) {
	remote := &RemoteCartMock{
		AddLineFunc: func(context.Context, string, string, int, string) (normalize.MutationResult, error) {
			return normalize.MutationResult{NewStock: 1, StockKnown: true}, models.ErrConflict
		},
	}
	f := newFixture(t, remote, records())
	gen := f.activate(alice, models.FlagEnabled)
	seed(t, f, gen, models.CartLine{ItemID: "A", Quantity: 1, UnitPrice: decimal.NewFromInt(10), CachedStock: 3})

	err := f.ctrl.AddOne(context.Background(), "A")
	assert.ErrorIs(t, err, models.ErrConflict)

	line, ok := f.store.Read().Line("A")
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity)
	assert.Equal(t, 1, line.CachedStock)
	assert.False(t, line.Pending)

	err = f.ctrl.AddOne(context.Background(), "A")
	assert.ErrorIs(t, err, models.ErrInsufficientStock)
}

func TestController_ServerQuantityWins(t *testing.T) {
	qty := 5
	remote := &RemoteCartMock{
		AddLineFunc: func(context.Context, string, string, int, string) (normalize.MutationResult, error) {
			return normalize.MutationResult{NewStock: 10, StockKnown: true, Quantity: &qty}, nil
		},
	}
	f := newFixture(t, remote, records())
	f.activate(alice, models.FlagEnabled)

	require.NoError(t, f.ctrl.AddOne(context.Background(), "A"))

	snap := f.store.Read()
	assert.Equal(t, 5, snap.Lines["A"].Quantity)
	assert.Equal(t, "50", snap.TotalPrice.String())
}

func TestController_SuccessWithoutStockConfirms(t *testing.T) {
	qty := 2
	remote := &RemoteCartMock{
		AddLineFunc: func(context.Context, string, string, int, string) (normalize.MutationResult, error) {
			return normalize.MutationResult{Quantity: &qty}, nil
		},
	}
	f := newFixture(t, remote, records())
	gen := f.activate(alice, models.FlagEnabled)
	seed(t, f, gen, models.CartLine{ItemID: "A", Quantity: 1, UnitPrice: decimal.NewFromInt(10), CachedStock: 3})

	var events []models.StockEvent
	f.bus.Subscribe("A", func(ev models.StockEvent) { events = append(events, ev) })

	require.NoError(t, f.ctrl.AddOne(context.Background(), "A"))

	line, ok := f.store.Read().Line("A")
	require.True(t, ok)
	assert.Equal(t, 2, line.Quantity)
	assert.False(t, line.Pending)
	assert.Equal(t, 3, line.CachedStock, "unknown stock keeps the cached value")
	assert.Equal(t, StateConfirmed, f.ctrl.State("A"))
	assert.Empty(t, events, "nothing to publish without stock")
}

func TestController_HungRemoteStaysPending(t *testing.T) {
	started := make(chan struct{})
	remote := &RemoteCartMock{
		AddLineFunc: func(ctx context.Context, _ string, _ string, _ int, _ string) (normalize.MutationResult, error) {
			close(started)
			<-ctx.Done()
			return normalize.MutationResult{}, ctx.Err()
		},
	}
	f := newFixture(t, remote, records())
	f.activate(alice, models.FlagEnabled)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- f.ctrl.AddOne(ctx, "A")
	}()
	<-started

	// без ответа сервера строка остается в работе сколько угодно долго
	assert.Never(t, func() bool {
		line, _ := f.store.Read().Line("A")
		return !line.Pending || f.ctrl.State("A") != StatePending
	}, 200*time.Millisecond, 10*time.Millisecond)

	line, ok := f.store.Read().Line("A")
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity)

	cancel()
	require.Error(t, <-done)
	assert.Equal(t, StateRolledBack, f.ctrl.State("A"))
}

func TestController_AdministratorIsRejected(t *testing.T) {
	remote := &RemoteCartMock{}
	f := newFixture(t, remote, records())
	f.activate(root, models.FlagEnabled)

	err := f.ctrl.AddOne(context.Background(), "A")
	assert.ErrorIs(t, err, models.ErrValidation)
	err = f.ctrl.RemoveOne(context.Background(), "A")
	assert.ErrorIs(t, err, models.ErrValidation)

	assert.Empty(t, remote.AddLineCalls())
	assert.Empty(t, remote.RemoveLineCalls())
	assert.Empty(t, f.store.Read().Lines)
}

func TestController_Preconditions(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		itemID  string
		flag    models.CartFlag
	}{
		{name: "unknown flag", itemID: "A", flag: models.FlagUnknown, wantErr: models.ErrCartDisabled},
		{name: "disabled cart", itemID: "A", flag: models.FlagDisabled, wantErr: models.ErrCartDisabled},
		{name: "sold out", itemID: "Z", flag: models.FlagEnabled, wantErr: models.ErrInsufficientStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := &RemoteCartMock{}
			f := newFixture(t, remote, records())
			f.activate(alice, tt.flag)

			err := f.ctrl.AddOne(context.Background(), tt.itemID)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, models.ErrValidation)
			assert.Empty(t, remote.AddLineCalls())
			assert.Empty(t, f.store.Read().Lines)
			assert.Equal(t, StateIdle, f.ctrl.State(tt.itemID))
		})
	}
}

func TestController_UnknownItem(t *testing.T) {
	remote := &RemoteCartMock{}
	f := newFixture(t, remote, records())
	f.activate(alice, models.FlagEnabled)

	err := f.ctrl.AddOne(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, remote.AddLineCalls())
	assert.Equal(t, StateIdle, f.ctrl.State("missing"))
}

func TestController_RemoveMissingLineIsNoop(t *testing.T) {
	remote := &RemoteCartMock{}
	f := newFixture(t, remote, records())
	f.activate(alice, models.FlagEnabled)

	require.NoError(t, f.ctrl.RemoveOne(context.Background(), "A"))
	assert.Empty(t, remote.RemoveLineCalls())
	assert.Equal(t, StateIdle, f.ctrl.State("A"))
}

func TestController_ForbiddenDisablesGate(t *testing.T) {
	f := newFixture(t, failingRemote(models.ErrRemoteForbidden), records())
	f.activate(alice, models.FlagEnabled)

	err := f.ctrl.AddOne(context.Background(), "A")
	assert.ErrorIs(t, err, models.ErrRemoteForbidden)
	assert.NotErrorIs(t, err, models.ErrValidation)

	assert.False(t, f.gate.IsEnabled())
	assert.False(t, f.store.Read().Enabled)
	assert.Empty(t, f.store.Read().Lines)
}

func TestController_ResultDroppedAfterIdentitySwitch(t *testing.T) {
	var f *fixture
	remote := &RemoteCartMock{
		AddLineFunc: func(context.Context, string, string, int, string) (normalize.MutationResult, error) {
			// пользователь сменился, пока запрос был в полете
			f.activate(bob, models.FlagEnabled)
			return normalize.MutationResult{NewStock: 7, StockKnown: true}, nil
		},
	}
	f = newFixture(t, remote, records())
	f.activate(alice, models.FlagEnabled)

	err := f.ctrl.AddOne(context.Background(), "A")
	assert.ErrorIs(t, err, models.ErrStaleSession)

	assert.Empty(t, f.store.Read().Lines, "alice's line never reaches bob's cart")
	assert.Equal(t, StateIdle, f.ctrl.State("A"))

	// остаток общий и публикуется независимо от identity
	latest, ok := f.bus.Latest("A")
	require.True(t, ok)
	assert.Equal(t, 7, latest)
}

func TestController_FailedRollbackAfterSwitch(t *testing.T) {
	var f *fixture
	remote := &RemoteCartMock{
		AddLineFunc: func(context.Context, string, string, int, string) (normalize.MutationResult, error) {
			f.activate(bob, models.FlagEnabled)
			return normalize.MutationResult{}, errors.New("connection reset")
		},
	}
	f = newFixture(t, remote, records())
	f.activate(alice, models.FlagEnabled)

	err := f.ctrl.AddOne(context.Background(), "A")
	assert.ErrorIs(t, err, models.ErrStaleSession)
	assert.Empty(t, f.store.Read().Lines)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "confirmed", StateConfirmed.String())
	assert.Equal(t, "rolled_back", StateRolledBack.String())
	assert.True(t, canTransition(StatePending, StateConfirmed))
	assert.False(t, canTransition(StateIdle, StateConfirmed))
}
