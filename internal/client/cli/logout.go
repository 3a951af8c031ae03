package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runLogout(ctx context.Context) error {
	if err := c.session.Logout(ctx); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	c.io.Println("✓ Logged out. Local cart data removed.")
	return nil
}
