package storage

import (
	"context"

	"github.com/edudesk/edudesk/internal/models"
)

// SessionStorage defines interface for server session persistence
type SessionStorage interface {
	// SaveSession stores a new session
	SaveSession(ctx context.Context, session *models.Session) error

	// GetSessionByID retrieves session by its UUID
	// Returns ErrSessionNotFound if session doesn't exist
	GetSessionByID(ctx context.Context, id string) (*models.Session, error)

	// GetSessionByRefreshToken retrieves session by refresh token value
	// Returns ErrSessionNotFound if session doesn't exist
	GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*models.Session, error)

	// RotateRefreshToken replaces the session's refresh token
	// Returns ErrSessionNotFound if session doesn't exist
	RotateRefreshToken(ctx context.Context, id, newRefreshToken string) error

	// DeleteSession removes a session by its UUID
	// Returns ErrSessionNotFound if session doesn't exist
	DeleteSession(ctx context.Context, id string) error

	// RevokeUserSessions marks all of the user's sessions revoked
	// Returns number of revoked sessions
	RevokeUserSessions(ctx context.Context, userID int64) (int, error)

	// DeleteExpiredSessions removes all expired sessions
	// Returns number of deleted sessions
	DeleteExpiredSessions(ctx context.Context) (int, error)
}
