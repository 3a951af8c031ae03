package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/cartkeeper/internal/client/auth"
	cartsync "github.com/iudanet/cartkeeper/internal/client/sync"
	"github.com/iudanet/cartkeeper/internal/models"
	"github.com/iudanet/cartkeeper/pkg/api"
)

var shopper = models.Identity{ID: "user-1", Role: models.RoleShopper}

func sampleSnapshot() models.CartSnapshot {
	return models.SnapshotFromLines(true, []models.CartLine{
		{ItemID: "sku-1", Title: "Mug", UnitPrice: decimal.RequireFromString("12.5"), Quantity: 2, CachedStock: 3},
		{ItemID: "sku-2", UnitPrice: decimal.NewFromInt(5), Quantity: 1, CachedStock: 10, Pending: true},
	})
}

// newSession мок сессии с восстановленной identity и корзиной snap
func newSession(snap models.CartSnapshot, enabled bool) *SessionMock {
	return &SessionMock{
		RestoreFunc: func(ctx context.Context) (models.Identity, error) {
			return shopper, nil
		},
		WaitFunc: func(ctx context.Context) (*cartsync.Result, error) {
			return &cartsync.Result{Flag: models.FlagEnabled}, nil
		},
		SnapshotFunc: func() models.CartSnapshot {
			return snap
		},
		CartEnabledFunc: func() bool {
			return enabled
		},
	}
}

func TestCli_runCart(t *testing.T) {
	sess := newSession(sampleSnapshot(), true)
	c, out := newTestCli(sess, nil, "")

	require.NoError(t, c.runCart(context.Background()))

	text := out.String()
	assert.Contains(t, text, "=== Cart (enabled) ===")
	assert.Contains(t, text, "- sku-1 Mug")
	assert.Contains(t, text, "Qty:      2 x 12.50 = 25.00")
	assert.Contains(t, text, "In stock: 3")
	assert.Contains(t, text, "- sku-2\n")
	assert.Contains(t, text, "pending confirmation")
	assert.Contains(t, text, "Items: 3")
	assert.Contains(t, text, "Total: 30.00")
	assert.Less(t, strings.Index(text, "sku-1"), strings.Index(text, "sku-2"), "lines keep insertion order")
}

func TestCli_runCart_Empty(t *testing.T) {
	sess := newSession(models.NewSnapshot(true), true)
	c, out := newTestCli(sess, nil, "")

	require.NoError(t, c.runCart(context.Background()))
	assert.Contains(t, out.String(), "Cart is empty.")
}

func TestCli_runCart_NotAuthenticated(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{name: "no session", err: auth.ErrNotAuthenticated, wantMsg: "cartkeeper login' first"},
		{name: "expired", err: auth.ErrSessionExpired, wantMsg: "session expired"},
		{name: "storage", err: errors.New("disk failure"), wantMsg: "disk failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := &SessionMock{
				RestoreFunc: func(ctx context.Context) (models.Identity, error) {
					return models.Identity{}, tt.err
				},
			}
			c, _ := newTestCli(sess, nil, "")

			err := c.runCart(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Empty(t, sess.WaitCalls())
		})
	}
}

func TestCli_runCart_SyncFailureShowsCachedCart(t *testing.T) {
	sess := newSession(sampleSnapshot(), false)
	sess.WaitFunc = func(ctx context.Context) (*cartsync.Result, error) {
		return nil, fmt.Errorf("sync cart: %w", models.ErrTransientRemote)
	}
	c, out := newTestCli(sess, nil, "")

	require.NoError(t, c.runCart(context.Background()))
	assert.Contains(t, out.String(), "Warning: cart sync failed")
	assert.Contains(t, out.String(), "=== Cart (read-only) ===")
	assert.Contains(t, out.String(), "sku-1")
}

func TestCli_runChange(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		itemID      string
		count       int
		add         bool
		failOn      int // номер вызова, который вернет ошибку (с 1), 0 - без ошибок
		wantErr     error
		wantCalls   int
		wantRestore bool
	}{
		{name: "add one", itemID: "sku-1", count: 1, add: true, wantCalls: 1, wantRestore: true},
		{name: "add three", itemID: "sku-1", count: 3, add: true, wantCalls: 3, wantRestore: true},
		{name: "remove two", itemID: "sku-1", count: 2, wantCalls: 2, wantRestore: true},
		{name: "invalid item id", itemID: "bad id!", count: 1, add: true},
		{name: "zero count", itemID: "sku-1", count: 0, add: true},
		{
			name: "stops on error", itemID: "sku-1", count: 3, add: true, failOn: 2,
			wantErr: models.ErrInsufficientStock, wantCalls: 2, wantRestore: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			mutate := func(ctx context.Context, itemID string) error {
				calls++
				assert.Equal(t, tt.itemID, itemID)
				if calls == tt.failOn {
					return fmt.Errorf("add: %w", models.ErrInsufficientStock)
				}
				return nil
			}

			sess := newSession(sampleSnapshot(), true)
			sess.AddOneFunc = mutate
			sess.RemoveOneFunc = mutate
			c, out := newTestCli(sess, nil, "")

			err := c.runChange(ctx, tt.itemID, tt.count, tt.add)
			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, tt.wantRestore, len(sess.RestoreCalls()) == 1)
			if tt.add {
				assert.Empty(t, sess.RemoveOneCalls())
			} else {
				assert.Empty(t, sess.AddOneCalls())
			}

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, out.String(), "Applied 1 of 3")
			case !tt.wantRestore:
				require.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Contains(t, out.String(), "=== Cart (enabled) ===")
			}
		})
	}
}

func TestCli_runSync(t *testing.T) {
	sess := newSession(sampleSnapshot(), true)
	sess.WaitFunc = func(ctx context.Context) (*cartsync.Result, error) {
		return &cartsync.Result{Flag: models.FlagEnabled, Added: 2, Removed: 1, KeptPending: 1}, nil
	}
	c, out := newTestCli(sess, nil, "")

	require.NoError(t, c.runSync(context.Background()))
	text := out.String()
	assert.Contains(t, text, "Cart:         enabled")
	assert.Contains(t, text, "Added:        2")
	assert.Contains(t, text, "Removed:      1")
	assert.Contains(t, text, "Kept pending: 1")
}

func TestCli_runSync_Error(t *testing.T) {
	sess := newSession(sampleSnapshot(), true)
	sess.WaitFunc = func(ctx context.Context) (*cartsync.Result, error) {
		return nil, models.ErrTransientRemote
	}
	c, _ := newTestCli(sess, nil, "")

	err := c.runSync(context.Background())
	require.ErrorIs(t, err, models.ErrTransientRemote)
}

func TestCli_runCheckout(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		sess := newSession(sampleSnapshot(), true)
		sess.CheckoutFunc = func(ctx context.Context) (*api.CheckoutResponse, error) {
			return &api.CheckoutResponse{OrderID: "order-1", Total: "30.00", Items: 3}, nil
		}
		c, out := newTestCli(sess, nil, "")

		require.NoError(t, c.runCheckout(context.Background()))
		assert.Contains(t, out.String(), "Order ID: order-1")
		assert.Contains(t, out.String(), "Total:    30.00")
	})

	t.Run("stale cart", func(t *testing.T) {
		sess := newSession(sampleSnapshot(), true)
		sess.WaitFunc = func(ctx context.Context) (*cartsync.Result, error) {
			return nil, models.ErrTransientRemote
		}
		c, _ := newTestCli(sess, nil, "")

		err := c.runCheckout(context.Background())
		require.ErrorIs(t, err, models.ErrTransientRemote)
		assert.Empty(t, sess.CheckoutCalls())
	})
}

func TestCli_runAdminSetCart(t *testing.T) {
	sess := &SessionMock{
		RestoreFunc: func(ctx context.Context) (models.Identity, error) {
			return models.Identity{ID: "root", Role: models.RoleAdministrator}, nil
		},
		SetCartEnabledFunc: func(ctx context.Context, userID string, enabled bool) error {
			return nil
		},
	}
	c, out := newTestCli(sess, nil, "")

	require.NoError(t, c.runAdminSetCart(context.Background(), "user-1", false))
	calls := sess.SetCartEnabledCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "user-1", calls[0].UserID)
	assert.False(t, calls[0].Enabled)
	assert.Contains(t, out.String(), "Cart of user-1 is disabled")

	require.Error(t, c.runAdminSetCart(context.Background(), "", true))
}
