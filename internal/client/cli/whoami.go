package cli

import (
	"context"
)

func (c *Cli) runWhoAmI(ctx context.Context) error {
	res := c.probe.CurrentUser(ctx)
	if !res.Authenticated {
		c.io.Println("Not authenticated")
		c.io.Println("Run 'edudesk login' to authenticate.")
		return nil
	}

	user := res.User
	c.io.Printf("ID:       %d\n", user.ID)
	c.io.Printf("Username: %s\n", user.Username)
	c.io.Printf("Name:     %s\n", user.Name)
	c.io.Printf("Email:    %s\n", user.Email)
	c.io.Printf("Role:     %s\n", user.Role)
	c.io.Printf("Active:   %t\n", user.IsActive)

	return nil
}
