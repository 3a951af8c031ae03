package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runSync(ctx context.Context) error {
	if _, err := c.restore(ctx); err != nil {
		return err
	}

	result, err := c.session.Wait(ctx)
	if err != nil {
		return fmt.Errorf("synchronization failed: %w", err)
	}

	if err := c.render(syncResultTemplate, result); err != nil {
		return err
	}
	return c.printCart()
}
