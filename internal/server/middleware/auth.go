package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/edudesk/edudesk/internal/server/handlers"
	"github.com/edudesk/edudesk/internal/server/storage"
	"github.com/edudesk/edudesk/pkg/api"
)

// AuthMiddleware создает middleware для проверки JWT токена.
// Помимо подписи проверяется серверная сессия из claims: отозванная
// или удаленная сессия делает недействительным даже не истекший токен.
// Ошибки отдаются в JSON envelope, клиенты различают их по message.
func AuthMiddleware(logger *slog.Logger, jwtConfig handlers.JWTConfig, sessions storage.SessionStorage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Извлекаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("missing Authorization header")
				sendUnauthorized(logger, w, "Invalid or expired access token")
				return
			}

			// Ожидаем формат: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("invalid Authorization header format")
				sendUnauthorized(logger, w, "Invalid or expired access token")
				return
			}

			// Валидируем токен
			claims, err := handlers.ValidateAccessToken(jwtConfig, parts[1])
			if err != nil {
				logger.Warn("invalid access token", slog.Any("error", err))
				sendUnauthorized(logger, w, "Invalid or expired access token")
				return
			}

			// Проверяем что сессия из токена еще жива
			session, err := sessions.GetSessionByID(r.Context(), claims.SessionID)
			if err != nil {
				logger.Warn("session lookup failed",
					slog.String("session_id", claims.SessionID),
					slog.Any("error", err))
				sendUnauthorized(logger, w, "Session not found")
				return
			}
			if session.Revoked() {
				logger.Warn("revoked session used",
					slog.String("session_id", session.ID),
					slog.Int64("user_id", session.UserID))
				sendUnauthorized(logger, w, "Session has been revoked")
				return
			}
			if time.Now().After(session.ExpiresAt) {
				sendUnauthorized(logger, w, "Session not found")
				return
			}

			// Добавляем данные из токена в контекст
			ctx := context.WithValue(r.Context(), handlers.UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, handlers.UsernameKey, claims.Username)
			ctx = context.WithValue(ctx, handlers.RoleKey, claims.Role)
			ctx = context.WithValue(ctx, handlers.SessionIDKey, claims.SessionID)

			logger.Debug("user authenticated",
				slog.Int64("user_id", claims.UserID),
				slog.String("username", claims.Username))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sendUnauthorized(logger *slog.Logger, w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	resp := api.ErrorResponse{Success: false, Message: message}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("failed to encode error response", slog.Any("error", err))
	}
}
