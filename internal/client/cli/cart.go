package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/cartkeeper/internal/validation"
)

func (c *Cli) runCart(ctx context.Context) error {
	if _, err := c.restoreAndWait(ctx); err != nil {
		return err
	}
	return c.printCart()
}

// runChange применяет count раз AddOne (delta > 0) или RemoveOne
func (c *Cli) runChange(ctx context.Context, itemID string, count int, add bool) error {
	if err := validation.ValidateItemID(itemID); err != nil {
		return fmt.Errorf("invalid item id: %w", err)
	}
	if count < 1 {
		return fmt.Errorf("count must be positive")
	}

	if _, err := c.restoreAndWait(ctx); err != nil {
		return err
	}

	for i := 0; i < count; i++ {
		var err error
		if add {
			err = c.session.AddOne(ctx, itemID)
		} else {
			err = c.session.RemoveOne(ctx, itemID)
		}
		if err != nil {
			if i > 0 {
				c.io.Printf("Applied %d of %d\n", i, count)
			}
			_ = c.printCart()
			return fmt.Errorf("failed to update %s: %w", itemID, err)
		}
	}

	return c.printCart()
}

func (c *Cli) printCart() error {
	return c.render(cartTemplate, newCartView(c.session.Snapshot(), c.session.CartEnabled()))
}
