package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runTeachers(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] != "list" {
		return fmt.Errorf("usage: edudesk teachers list")
	}

	return c.guard.Protect(ctx, func(ctx context.Context, _ string) error {
		teachers, err := c.school.Teachers(ctx)
		if err != nil {
			return err
		}

		if len(teachers) == 0 {
			c.io.Println("No teachers found.")
			return nil
		}

		c.io.Printf("%-6s %-24s %-16s %-24s\n", "ID", "NAME", "SUBJECT", "EMAIL")
		for _, t := range teachers {
			c.io.Printf("%-6d %-24s %-16s %-24s\n", t.ID, t.Name, t.Subject, t.Email)
		}
		return nil
	})
}
