package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runCheckout(ctx context.Context) error {
	if _, err := c.restore(ctx); err != nil {
		return err
	}
	// по устаревшей корзине заказ не оформляем
	if _, err := c.session.Wait(ctx); err != nil {
		return fmt.Errorf("cart sync failed: %w", err)
	}

	resp, err := c.session.Checkout(ctx)
	if err != nil {
		return err
	}
	return c.render(checkoutTemplate, resp)
}
