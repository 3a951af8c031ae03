package cli

import (
	"context"
	"fmt"
	"time"
)

func (c *Cli) runLogin(ctx context.Context, username string, passwords Passwords) error {
	c.io.Println("=== Login ===")
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

	c.io.Println("Authenticating...")

	result, err := c.session.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Username: %s\n", result.Username)
	c.io.Printf("Role:     %s\n", result.Identity.Role)
	if !result.ExpiresAt.IsZero() {
		c.io.Printf("Access token expires in: %s\n", time.Until(result.ExpiresAt).Round(time.Second))
	}

	if result.Identity.IsAdmin() {
		c.io.Println()
		c.io.Println("Administrators have no cart. Use 'cartkeeper admin' to manage shopper carts.")
		return nil
	}

	if _, err := c.session.Wait(ctx); err != nil {
		c.io.Printf("Warning: cart sync failed, showing last known cart: %v\n", err)
	}
	return c.render(cartTemplate, newCartView(c.session.Snapshot(), c.session.CartEnabled()))
}
