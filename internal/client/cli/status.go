package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/cartkeeper/internal/client/auth"
)

func (c *Cli) runStatus(ctx context.Context) error {
	info, err := c.auth.Session(ctx)
	if errors.Is(err, auth.ErrNotAuthenticated) {
		return c.render(statusTemplate, (*auth.SessionInfo)(nil))
	}
	if err != nil {
		return fmt.Errorf("failed to check authentication: %w", err)
	}

	if err := c.render(statusTemplate, info); err != nil {
		return err
	}
	if info.Expired || info.Identity.IsAdmin() {
		return nil
	}

	if _, err := c.restoreAndWait(ctx); err != nil {
		return err
	}

	snap := c.session.Snapshot()
	c.io.Println()
	if c.session.CartEnabled() {
		c.io.Println("Cart:          enabled")
	} else {
		c.io.Println("Cart:          read-only")
	}
	c.io.Printf("Items in cart: %d (total %s)\n", snap.TotalItems, snap.TotalPrice.StringFixed(2))
	return nil
}
