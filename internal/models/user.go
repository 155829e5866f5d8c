package models

import (
	"time"

	"github.com/edudesk/edudesk/pkg/api"
)

// User представляет учетную запись администратора/сотрудника школы
type User struct {
	Username     string     `json:"username"`  // уникальный username
	Email        string     `json:"email"`     // email
	Name         string     `json:"name"`      // отображаемое имя
	Role         string     `json:"role"`      // роль: admin, superadmin, faculty, student
	PasswordHash string     `json:"-"`         // bcrypt хеш пароля
	CreatedAt    time.Time  `json:"createdAt"` // время создания
	LastLogin    *time.Time `json:"lastLogin"` // время последнего входа
	ID           int64      `json:"id"`        // числовой ID
	IsActive     bool       `json:"isActive"`  // активна ли учетная запись
}

// Session представляет серверную сессию пользователя.
// RefreshToken живет только в HttpOnly cookie и в этой записи.
type Session struct {
	ID           string     `json:"id"`           // UUID сессии
	RefreshToken string     `json:"refreshToken"` // случайный refresh token
	ExpiresAt    time.Time  `json:"expiresAt"`    // время истечения
	CreatedAt    time.Time  `json:"createdAt"`    // время создания
	RevokedAt    *time.Time `json:"revokedAt"`    // время отзыва (принудительный выход)
	UserID       int64      `json:"userId"`       // владелец
}

// Revoked reports whether the session was force-revoked server-side.
func (s *Session) Revoked() bool {
	return s.RevokedAt != nil
}

// UserFromPayload normalizes a loosely-typed API user into a User.
// Missing fields get safe defaults: empty strings, zero ID, active=true.
// A nil payload yields nil.
func UserFromPayload(p *api.UserPayload) *User {
	if p == nil {
		return nil
	}
	u := &User{
		ID:       p.ID,
		IsActive: true,
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	return u
}

// Payload converts a User back to its wire form.
func (u *User) Payload() *api.UserPayload {
	if u == nil {
		return nil
	}
	username := u.Username
	email := u.Email
	name := u.Name
	role := u.Role
	active := u.IsActive
	return &api.UserPayload{
		ID:       u.ID,
		Username: &username,
		Email:    &email,
		Name:     &name,
		Role:     &role,
		IsActive: &active,
	}
}
