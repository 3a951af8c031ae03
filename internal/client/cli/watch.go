package cli

import (
	"context"
	"sync"
	"time"

	"github.com/iudanet/cartkeeper/internal/client/broadcast"
	"github.com/iudanet/cartkeeper/internal/models"
)

// runWatch печатает изменения корзины и остатков до отмены ctx или смены identity.
// Каждые interval корзина сверяется с сервером.
func (c *Cli) runWatch(ctx context.Context, interval time.Duration) error {
	if _, err := c.restoreAndWait(ctx); err != nil {
		return err
	}
	if err := c.printCart(); err != nil {
		return err
	}

	var mu sync.Mutex
	scope := c.session.NewScope()
	defer scope.Close()

	scope.OnCart(func(snap models.CartSnapshot) {
		mu.Lock()
		defer mu.Unlock()
		c.io.Printf("cart: %d item(s), total %s%s\n", snap.TotalItems, snap.TotalPrice.StringFixed(2), pendingMark(snap))
	})
	scope.OnStock(broadcast.Wildcard, func(ev models.StockEvent) {
		mu.Lock()
		defer mu.Unlock()
		c.io.Printf("stock: %s -> %d\n", ev.ItemID, ev.NewStock)
	})

	c.io.Println()
	c.io.Println("Watching cart changes, press Ctrl+C to stop...")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-scope.Done():
			c.io.Println("Session changed, stopping.")
			return nil
		case <-ticker.C:
			if _, err := c.session.Refresh(ctx); err != nil && ctx.Err() == nil {
				mu.Lock()
				c.io.Printf("Warning: refresh failed: %v\n", err)
				mu.Unlock()
			}
		}
	}
}

func pendingMark(snap models.CartSnapshot) string {
	if snap.HasPending() {
		return " (pending)"
	}
	return ""
}
