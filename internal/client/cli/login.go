package cli

import (
	"context"
	"fmt"

	"github.com/edudesk/edudesk/internal/models"
	"github.com/edudesk/edudesk/internal/validation"
	"github.com/edudesk/edudesk/pkg/api"
)

func (c *Cli) runLogin(ctx context.Context, passwords Passwords) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	// Запрашиваем username
	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}
	if err := validation.ValidateUsername(username); err != nil {
		return fmt.Errorf("invalid username: %w", err)
	}

	// Запрашиваем пароль
	password, err := c.getPassword(passwords)
	if err != nil {
		return err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	// Логин. Cookie сессии и refresh токена сервер выставит сам,
	// jar их сохранит.
	resp, err := c.apiClient.Login(ctx, api.LoginRequest{Username: username, Password: password})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if !resp.Success || resp.Data == nil || resp.Data.AccessToken == "" {
		msg := resp.Message
		if msg == "" {
			msg = "server rejected login"
		}
		return fmt.Errorf("login failed: %s", msg)
	}

	// Сохраняем access token и снимок идентичности
	if err := c.store.Write(resp.Data.AccessToken); err != nil {
		return fmt.Errorf("failed to save access token: %w", err)
	}
	user := models.UserFromPayload(&resp.Data.User)
	if user != nil {
		if err := c.store.SaveUser(user); err != nil {
			return fmt.Errorf("failed to save user snapshot: %w", err)
		}
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	if user != nil {
		c.io.Printf("Username: %s\n", user.Username)
		c.io.Printf("Role: %s\n", user.Role)
	}
	c.io.Println()
	c.io.Println("Your session has been saved.")

	return nil
}
