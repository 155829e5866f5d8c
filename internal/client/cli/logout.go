package cli

import (
	"context"
)

func (c *Cli) runLogout(ctx context.Context) error {
	c.io.Println("=== Logout ===")

	// Уведомляем сервер (best effort): локальное состояние чистим
	// в любом случае
	tok, _ := c.store.Read()
	if err := c.apiClient.Logout(ctx, tok); err != nil {
		c.io.Printf("Warning: failed to logout on server: %v\n", err)
	}

	c.coordinator.Clear()

	c.io.Println("✓ Logout successful!")
	c.io.Println("Your local session has been deleted.")

	return nil
}
