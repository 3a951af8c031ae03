package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runAdminSetCart(ctx context.Context, userID string, enabled bool) error {
	if userID == "" {
		return fmt.Errorf("missing user id")
	}
	if _, err := c.restore(ctx); err != nil {
		return err
	}

	if err := c.session.SetCartEnabled(ctx, userID, enabled); err != nil {
		return err
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	c.io.Printf("✓ Cart of %s is %s\n", userID, state)
	return nil
}
