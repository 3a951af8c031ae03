// Package catalog resolves item metadata and known stock for cart lines.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iudanet/cartkeeper/internal/models"
)

//go:generate moq -out source_mock.go . ItemSource

const defaultTTL = time.Minute

// ItemSource удаленный каталог
type ItemSource interface {
	GetItem(ctx context.Context, itemID string) (models.Item, error)
}

// StockSource последние опубликованные остатки (StockBroadcast)
type StockSource interface {
	Latest(itemID string) (int, bool)
}

type entry struct {
	fetched time.Time
	item    models.Item
}

// Catalog кэширует метаданные товаров. Остаток из последнего события
// StockSource всегда приоритетнее остатка из ответа каталога.
type Catalog struct {
	source ItemSource
	stock  StockSource
	logger *slog.Logger
	now    func() time.Time
	items  map[string]entry
	ttl    time.Duration
	mu     sync.RWMutex
}

// Option настраивает Catalog
type Option func(*Catalog)

// WithTTL задает время жизни записи кэша
func WithTTL(ttl time.Duration) Option {
	return func(c *Catalog) {
		c.ttl = ttl
	}
}

// WithClock подменяет часы (тесты)
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) {
		c.now = now
	}
}

// New creates a catalog. stock may be nil.
func New(source ItemSource, stock StockSource, logger *slog.Logger, opts ...Option) *Catalog {
	c := &Catalog{
		source: source,
		stock:  stock,
		logger: logger,
		now:    time.Now,
		items:  make(map[string]entry),
		ttl:    defaultTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup returns item metadata, fetching it when the cached copy expired.
func (c *Catalog) Lookup(ctx context.Context, itemID string) (models.Item, error) {
	c.mu.RLock()
	e, ok := c.items[itemID]
	c.mu.RUnlock()

	if !ok || c.now().Sub(e.fetched) > c.ttl {
		item, err := c.source.GetItem(ctx, itemID)
		if err != nil {
			return models.Item{}, fmt.Errorf("failed to lookup item %s: %w", itemID, err)
		}
		e = entry{item: item, fetched: c.now()}

		c.mu.Lock()
		c.items[itemID] = e
		c.mu.Unlock()
	}

	return c.overlay(e.item), nil
}

// KnownStock returns the freshest stock known without a remote call.
func (c *Catalog) KnownStock(itemID string) (int, bool) {
	if c.stock != nil {
		if s, ok := c.stock.Latest(itemID); ok {
			return s, true
		}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.items[itemID]
	if !ok {
		return 0, false
	}
	return e.item.Stock, true
}

// Hydrate заполняет отсутствующие метаданные строк. Ошибки каталога не фатальны:
// строка остается как есть, ошибка логируется.
func (c *Catalog) Hydrate(ctx context.Context, lines []models.CartLine) []models.CartLine {
	out := make([]models.CartLine, len(lines))
	copy(out, lines)

	for i, line := range out {
		if !needsHydration(line) {
			continue
		}
		item, err := c.Lookup(ctx, line.ItemID)
		if err != nil {
			c.logger.Warn("failed to hydrate cart line",
				"item_id", line.ItemID,
				"error", err)
			continue
		}
		if line.Title == "" {
			line.Title = item.Title
		}
		if line.ImageRef == "" {
			line.ImageRef = item.ImageRef
		}
		if line.UnitPrice.IsZero() {
			line.UnitPrice = item.UnitPrice
		}
		if line.CachedStock == 0 {
			line.CachedStock = item.Stock
		}
		out[i] = line
	}
	return out
}

// Invalidate drops the cached entry of itemID.
func (c *Catalog) Invalidate(itemID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, itemID)
}

// Purge drops every cached entry.
func (c *Catalog) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]entry)
}

func (c *Catalog) overlay(item models.Item) models.Item {
	if c.stock != nil {
		if s, ok := c.stock.Latest(item.ID); ok {
			item.Stock = s
		}
	}
	return item
}

func needsHydration(line models.CartLine) bool {
	return line.Title == "" || line.UnitPrice.IsZero()
}
