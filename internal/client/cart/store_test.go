package cart

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/cartkeeper/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) (*Store, *PersisterMock, uint64) {
	t.Helper()
	p := &PersisterMock{
		SaveFunc: func(context.Context, string, models.CartSnapshot) error { return nil },
	}
	s := NewStore(p, testLogger())
	gen := s.Reset("alice@example.com")
	return s, p, gen
}

func hint(price string, stock int) models.Item {
	return models.Item{UnitPrice: decimal.RequireFromString(price), Title: "Record", Stock: stock}
}

func TestStore_ApplyDelta(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		setup     func(s *Store, gen uint64)
		itemID    string
		wantTotal string
		delta     int
		wantQty   int
		wantItems int
		wantLine  bool
	}{
		{
			name:      "positive delta creates line",
			itemID:    "A",
			delta:     2,
			wantQty:   2,
			wantLine:  true,
			wantItems: 2,
			wantTotal: "20",
		},
		{
			name:   "negative delta on unknown item is noop",
			itemID: "A",
			delta:  -1,
		},
		{
			name: "clamped at zero removes line",
			setup: func(s *Store, gen uint64) {
				_, err := s.ApplyDelta(ctx, gen, "A", 1, WithHint(hint("10", 5)))
				require.NoError(t, err)
			},
			itemID: "A",
			delta:  -5,
		},
		{
			name: "existing line keeps its price",
			setup: func(s *Store, gen uint64) {
				_, err := s.ApplyDelta(ctx, gen, "A", 1, WithHint(hint("10", 5)))
				require.NoError(t, err)
			},
			itemID:    "A",
			delta:     1,
			wantQty:   2,
			wantLine:  true,
			wantItems: 2,
			wantTotal: "20",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, gen := newTestStore(t)
			if tt.setup != nil {
				tt.setup(s, gen)
			}

			snap, err := s.ApplyDelta(ctx, gen, tt.itemID, tt.delta, WithHint(hint("10", 5)))
			require.NoError(t, err)

			line, ok := snap.Line(tt.itemID)
			assert.Equal(t, tt.wantLine, ok)
			if tt.wantLine {
				assert.Equal(t, tt.wantQty, line.Quantity)
				assert.Equal(t, 5, line.CachedStock)
			}
			assert.Equal(t, tt.wantItems, snap.TotalItems)
			if tt.wantTotal != "" {
				assert.Equal(t, tt.wantTotal, snap.TotalPrice.String())
			} else {
				assert.True(t, snap.TotalPrice.IsZero())
			}
			assert.Equal(t, snap, s.Read())
		})
	}
}

func TestStore_RollbackRestoresPreviousSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("new line", func(t *testing.T) {
		s, _, gen := newTestStore(t)
		_, err := s.ApplyDelta(ctx, gen, "B", 1, WithHint(hint("3.50", 9)))
		require.NoError(t, err)

		before := s.Read()
		_, err = s.ApplyDelta(ctx, gen, "A", 1, WithHint(hint("10", 5)), WithPending(true))
		require.NoError(t, err)
		after, err := s.ApplyDelta(ctx, gen, "A", -1, WithPending(false))
		require.NoError(t, err)

		assert.Equal(t, before, after)
	})

	t.Run("existing line", func(t *testing.T) {
		s, _, gen := newTestStore(t)
		_, err := s.ApplyDelta(ctx, gen, "A", 2, WithHint(hint("10", 5)))
		require.NoError(t, err)

		before := s.Read()
		_, err = s.ApplyDelta(ctx, gen, "A", 1, WithPending(true))
		require.NoError(t, err)
		after, err := s.ApplyDelta(ctx, gen, "A", -1, WithPending(false))
		require.NoError(t, err)

		assert.Equal(t, before, after)
	})

	t.Run("empty cart", func(t *testing.T) {
		s, _, gen := newTestStore(t)
		before := s.Read()

		_, err := s.ApplyDelta(ctx, gen, "A", 1, WithHint(hint("10", 5)), WithPending(true))
		require.NoError(t, err)
		after, err := s.ApplyDelta(ctx, gen, "A", -1, WithPending(false))
		require.NoError(t, err)

		assert.Equal(t, before, after)
	})
}

func TestStore_StaleGeneration(t *testing.T) {
	ctx := context.Background()
	s, _, oldGen := newTestStore(t)

	newGen := s.Reset("bob@example.com")
	require.NotEqual(t, oldGen, newGen)

	_, err := s.ApplyDelta(ctx, oldGen, "A", 1)
	assert.ErrorIs(t, err, models.ErrStaleSession)

	_, err = s.Replace(ctx, oldGen, models.SnapshotFromLines(true, []models.CartLine{{ItemID: "A", Quantity: 1}}))
	assert.ErrorIs(t, err, models.ErrStaleSession)

	err = s.SetPending(ctx, oldGen, "A", true)
	assert.ErrorIs(t, err, models.ErrStaleSession)

	assert.Empty(t, s.Read().Lines)
	assert.Equal(t, "bob@example.com", s.Owner())
}

func TestStore_ResetIsolatesIdentities(t *testing.T) {
	ctx := context.Background()
	s, p, gen := newTestStore(t)

	_, err := s.ApplyDelta(ctx, gen, "A", 2, WithHint(hint("10", 5)))
	require.NoError(t, err)

	s.Reset("bob@example.com")

	snap := s.Read()
	assert.Empty(t, snap.Lines)
	assert.Nil(t, snap.Order)
	assert.False(t, snap.Enabled)

	// сброс не перезаписывает кэш
	calls := p.SaveCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "alice@example.com", calls[0].IdentityID)
}

func TestStore_PersistsUnderOwner(t *testing.T) {
	ctx := context.Background()
	s, p, gen := newTestStore(t)

	snap, err := s.Replace(ctx, gen, models.SnapshotFromLines(true, []models.CartLine{
		{ItemID: "A", Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
	}))
	require.NoError(t, err)
	assert.Equal(t, 2, snap.TotalItems)

	calls := p.SaveCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "alice@example.com", calls[0].IdentityID)
	assert.Equal(t, snap, calls[0].Snap)
}

func TestStore_PersistErrorIsNotFatal(t *testing.T) {
	ctx := context.Background()
	p := &PersisterMock{
		SaveFunc: func(context.Context, string, models.CartSnapshot) error { return errors.New("disk full") },
	}
	s := NewStore(p, testLogger())
	gen := s.Reset("alice@example.com")

	snap, err := s.ApplyDelta(ctx, gen, "A", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.TotalItems)
}

func TestStore_NoOwnerDoesNotPersist(t *testing.T) {
	p := &PersisterMock{}
	s := NewStore(p, testLogger())

	_, err := s.ApplyDelta(context.Background(), s.Generation(), "A", 1)
	require.NoError(t, err)
	assert.Empty(t, p.SaveCalls())
}

func TestStore_Subscribe(t *testing.T) {
	ctx := context.Background()
	s, _, gen := newTestStore(t)

	var seen []int
	unsubscribe := s.Subscribe(func(snap models.CartSnapshot) {
		seen = append(seen, snap.TotalItems)
		// чтение из подписчика не блокируется
		_ = s.Read()
	})

	_, err := s.ApplyDelta(ctx, gen, "A", 1)
	require.NoError(t, err)
	_, err = s.ApplyDelta(ctx, gen, "A", 1)
	require.NoError(t, err)
	// no-op не уведомляет
	_, err = s.ApplyDelta(ctx, gen, "Z", -1)
	require.NoError(t, err)

	unsubscribe()
	unsubscribe()
	_, err = s.ApplyDelta(ctx, gen, "A", 1)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, seen)
}

func TestStore_ListenerPanicIsContained(t *testing.T) {
	s, _, gen := newTestStore(t)
	s.Subscribe(func(models.CartSnapshot) { panic("boom") })

	assert.NotPanics(t, func() {
		_, err := s.ApplyDelta(context.Background(), gen, "A", 1)
		require.NoError(t, err)
	})
}

func TestStore_ApplyStock(t *testing.T) {
	ctx := context.Background()
	s, _, gen := newTestStore(t)

	_, err := s.ApplyDelta(ctx, gen, "A", 1, WithHint(hint("10", 3)))
	require.NoError(t, err)

	assert.True(t, s.ApplyStock(ctx, "A", 0))
	assert.False(t, s.ApplyStock(ctx, "A", 0), "same value")
	assert.False(t, s.ApplyStock(ctx, "missing", 4))

	line, ok := s.Read().Line("A")
	require.True(t, ok)
	assert.Equal(t, 0, line.CachedStock)
}

func TestStore_SetPendingAndEnabled(t *testing.T) {
	ctx := context.Background()
	s, _, gen := newTestStore(t)

	_, err := s.ApplyDelta(ctx, gen, "A", 1)
	require.NoError(t, err)

	require.NoError(t, s.SetPending(ctx, gen, "A", true))
	assert.True(t, s.Read().HasPending())
	require.NoError(t, s.SetPending(ctx, gen, "A", false))
	assert.False(t, s.Read().HasPending())

	require.NoError(t, s.SetEnabled(ctx, gen, true))
	assert.True(t, s.Read().Enabled)
}

func TestStore_ReadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s, _, gen := newTestStore(t)

	_, err := s.ApplyDelta(ctx, gen, "A", 1)
	require.NoError(t, err)

	snap := s.Read()
	delete(snap.Lines, "A")
	snap.Order[0] = "X"

	fresh := s.Read()
	assert.Contains(t, fresh.Lines, "A")
	assert.Equal(t, []string{"A"}, fresh.Order)
}

func TestStore_Modify(t *testing.T) {
	ctx := context.Background()
	s, p, gen := newTestStore(t)

	snap, err := s.Modify(ctx, gen, func(cur *models.CartSnapshot) bool {
		cur.Put(models.CartLine{ItemID: "A", Quantity: 3, UnitPrice: decimal.NewFromInt(2)})
		cur.Enabled = true
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, "6", snap.TotalPrice.String())
	assert.True(t, snap.Enabled)

	_, err = s.Modify(ctx, gen, func(*models.CartSnapshot) bool { return false })
	require.NoError(t, err)
	assert.Len(t, p.SaveCalls(), 1, "unchanged snapshot is not persisted")
}
