package cli

import (
	"context"
	"fmt"
)

// Run выполняет команду и возвращает ошибку вызывающему.
// Код выхода решает main.
func (c *Cli) Run(ctx context.Context, command string, args []string, passwords Passwords) error {
	switch command {
	case "login":
		return c.runLogin(ctx, passwords)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "whoami":
		return c.runWhoAmI(ctx)
	case "students":
		return c.runStudents(ctx, args)
	case "teachers":
		return c.runTeachers(ctx, args)
	default:
		PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}
