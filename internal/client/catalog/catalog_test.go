package catalog

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
	"github.com/iudanet/cartkeeper/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func itemSource(items map[string]models.Item) *ItemSourceMock {
	return &ItemSourceMock{
		GetItemFunc: func(_ context.Context, itemID string) (models.Item, error) {
			item, ok := items[itemID]
			if !ok {
				return models.Item{}, models.ErrNotFound
			}
			return item, nil
		},
	}
}

func TestCatalog_LookupCaches(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	src := itemSource(map[string]models.Item{
		"A": {ID: "A", Title: "Kind of Blue", UnitPrice: decimal.NewFromInt(10), Stock: 4},
	})
	c := New(src, nil, testLogger(), WithTTL(time.Minute), WithClock(func() time.Time { return now }))

	item, err := c.Lookup(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, "Kind of Blue", item.Title)

	_, err = c.Lookup(context.Background(), "A")
	require.NoError(t, err)
	assert.Len(t, src.GetItemCalls(), 1)

	now = now.Add(2 * time.Minute)
	_, err = c.Lookup(context.Background(), "A")
	require.NoError(t, err)
	assert.Len(t, src.GetItemCalls(), 2)

	c.Invalidate("A")
	_, err = c.Lookup(context.Background(), "A")
	require.NoError(t, err)
	assert.Len(t, src.GetItemCalls(), 3)
}

func TestCatalog_LookupError(t *testing.T) {
	c := New(itemSource(nil), nil, testLogger())

	_, err := c.Lookup(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCatalog_LatestStockWins(t *testing.T) {
	b := broadcast.New(testLogger())
	c := New(itemSource(map[string]models.Item{
		"A": {ID: "A", Stock: 4},
	}), b, testLogger())

	stock, ok := c.KnownStock("A")
	assert.False(t, ok)
	assert.Zero(t, stock)

	item, err := c.Lookup(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, 4, item.Stock)

	b.Publish("A", 1)

	item, err = c.Lookup(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, 1, item.Stock)

	stock, ok = c.KnownStock("A")
	require.True(t, ok)
	assert.Equal(t, 1, stock)
}

func TestCatalog_Hydrate(t *testing.T) {
	src := itemSource(map[string]models.Item{
		"A": {ID: "A", Title: "Kind of Blue", ImageRef: "a.jpg", UnitPrice: decimal.NewFromInt(10), Stock: 4},
	})
	c := New(src, nil, testLogger())

	lines := []models.CartLine{
		{ItemID: "A", Quantity: 1},
		{ItemID: "B", Quantity: 2, Title: "Known", UnitPrice: decimal.NewFromInt(3)},
		{ItemID: "missing", Quantity: 1},
	}

	out := c.Hydrate(context.Background(), lines)
	require.Len(t, out, 3)

	assert.Equal(t, "Kind of Blue", out[0].Title)
	assert.Equal(t, "a.jpg", out[0].ImageRef)
	assert.Equal(t, "10", out[0].UnitPrice.String())
	assert.Equal(t, 4, out[0].CachedStock)

	assert.Equal(t, lines[1], out[1], "complete line is not fetched")
	assert.Equal(t, lines[2], out[2], "lookup failure keeps the line")
	assert.Empty(t, lines[0].Title, "input is not modified")

	assert.Len(t, src.GetItemCalls(), 2)
}

func TestCatalog_Purge(t *testing.T) {
	calls := 0
	src := &ItemSourceMock{
		GetItemFunc: func(context.Context, string) (models.Item, error) {
			calls++
			if calls > 1 {
				return models.Item{}, errors.New("offline")
			}
			return models.Item{ID: "A", Stock: 2}, nil
		},
	}
	c := New(src, nil, testLogger())

	_, err := c.Lookup(context.Background(), "A")
	require.NoError(t, err)

	stock, ok := c.KnownStock("A")
	require.True(t, ok)
	assert.Equal(t, 2, stock)

	c.Purge()
	_, ok = c.KnownStock("A")
	assert.False(t, ok)

	_, err = c.Lookup(context.Background(), "A")
	assert.Error(t, err)
}
