package cli

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	if !c.store.HasSessionFlag() {
		c.io.Println("Status: Not authenticated")
		c.io.Println()
		c.io.Println("Run 'edudesk login' to authenticate.")
		return nil
	}

	c.io.Println("Status: Session flag present")

	// Кешированный снимок идентичности, если есть
	if user, err := c.store.CachedUser(); err == nil && user != nil {
		c.io.Printf("Username: %s\n", user.Username)
		c.io.Printf("Role: %s\n", user.Role)
	}

	tok, _ := c.store.Read()
	if tok == "" {
		c.io.Println("Access token: none (will be refreshed on next call)")
		return nil
	}

	// Для отображения достаточно незаверенного разбора exp
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			c.io.Printf("Token expires: %s\n", exp.Time.Format(time.RFC3339))
			remaining := time.Until(exp.Time)
			if remaining > 0 {
				c.io.Printf("Time remaining: %s\n", remaining.Round(time.Second))
			} else {
				c.io.Println("⚠️  Token has expired. It will be refreshed on next call.")
			}
		}
	}

	return nil
}
