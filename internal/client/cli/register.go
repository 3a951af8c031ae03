package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runRegister(ctx context.Context, username string, passwords Passwords) error {
	c.io.Println("=== Registration ===")
	c.io.Println()

	if username == "" {
		var err error
		username, err = c.io.ReadInput("Username: ")
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
	}

	password, err := c.getPassword(passwords)
	if err != nil {
		return err
	}

	result, err := c.auth.Register(ctx, username, password)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.io.Printf("Username: %s\n", result.Username)
	c.io.Printf("User ID:  %s\n", result.UserID)
	c.io.Println()
	c.io.Println("Run 'cartkeeper login' to start shopping.")
	return nil
}
