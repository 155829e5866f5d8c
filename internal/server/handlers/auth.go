package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/edudesk/edudesk/internal/models"
	"github.com/edudesk/edudesk/internal/server/storage"
	"github.com/edudesk/edudesk/internal/validation"
	"github.com/edudesk/edudesk/pkg/api"
)

// Cookie, которые сервер выставляет клиенту.
// edudesk_refresh доступна только серверу (HttpOnly), edudesk_session
// это флаг "сессия существует" для клиентской логики.
const (
	refreshCookieName     = "edudesk_refresh"
	sessionFlagCookieName = "edudesk_session"
)

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger    *slog.Logger
	users     storage.UserStorage
	sessions  storage.SessionStorage
	jwtConfig JWTConfig
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, users storage.UserStorage, sessions storage.SessionStorage, jwtConfig JWTConfig) *AuthHandler {
	return &AuthHandler{
		logger:    logger,
		users:     users,
		sessions:  sessions,
		jwtConfig: jwtConfig,
	}
}

// Login обрабатывает POST /api/auth/login
// Аутентификация администратора по username/password
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Парсим request body
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode login request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Валидация username
	if err := validation.ValidateUsername(req.Username); err != nil {
		h.logger.WarnContext(ctx, "invalid username", slog.String("username", req.Username), slog.Any("error", err))
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Password == "" {
		h.sendError(w, "password is required", http.StatusBadRequest)
		return
	}

	// Получаем пользователя из БД
	user, err := h.users.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "login failed: user not found", slog.String("username", req.Username))
			h.sendError(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if !user.IsActive {
		h.logger.WarnContext(ctx, "login failed: account inactive", slog.String("username", req.Username))
		h.sendError(w, "account is inactive", http.StatusUnauthorized)
		return
	}

	// Проверяем пароль
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.logger.WarnContext(ctx, "login failed: invalid password", slog.String("username", req.Username))
		h.sendError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	// Создаем серверную сессию
	refreshToken, err := GenerateRefreshToken()
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate refresh token", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	session := &models.Session{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(h.jwtConfig.RefreshTokenTTL),
		CreatedAt:    time.Now(),
	}
	if err := h.sessions.SaveSession(ctx, session); err != nil {
		h.logger.ErrorContext(ctx, "failed to save session", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Генерируем access token, привязанный к сессии
	accessToken, err := GenerateAccessToken(h.jwtConfig, user, session.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate access token", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Обновляем last_login
	if err := h.users.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		// Не критичная ошибка, логируем но не прерываем
		h.logger.WarnContext(ctx, "failed to update last login", slog.Any("error", err))
	}

	h.setAuthCookies(w, refreshToken)

	h.logger.InfoContext(ctx, "user logged in successfully",
		slog.String("username", req.Username),
		slog.Int64("user_id", user.ID),
		slog.String("session_id", session.ID))

	h.sendJSON(w, api.LoginResponse{
		Success: true,
		Data: &api.RefreshData{
			AccessToken: accessToken,
			User:        *user.Payload(),
		},
	}, http.StatusOK)
}

// Refresh обрабатывает POST /api/auth/refresh
// Выдает новый access token по refresh cookie, тело запроса пустое
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, errMsg := h.sessionFromCookie(r)
	if session == nil {
		h.logger.WarnContext(ctx, "refresh rejected", slog.String("reason", errMsg))
		h.clearAuthCookies(w)
		h.sendError(w, errMsg, http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get session user", slog.Any("error", err))
		h.clearAuthCookies(w)
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Ротируем refresh token: старое значение больше не действует
	newRefreshToken, err := GenerateRefreshToken()
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate refresh token", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if err := h.sessions.RotateRefreshToken(ctx, session.ID, newRefreshToken); err != nil {
		h.logger.ErrorContext(ctx, "failed to rotate refresh token", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	accessToken, err := GenerateAccessToken(h.jwtConfig, user, session.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate access token", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.setAuthCookies(w, newRefreshToken)

	h.logger.InfoContext(ctx, "tokens refreshed successfully",
		slog.Int64("user_id", user.ID),
		slog.String("session_id", session.ID))

	h.sendJSON(w, api.RefreshResponse{
		Success: true,
		Data: &api.RefreshData{
			AccessToken: accessToken,
			User:        *user.Payload(),
		},
	}, http.StatusOK)
}

// WhoIsMe обрабатывает GET /api/auth/v1/who-is-me
// Отвечает, кому принадлежит текущая сессия. Отсутствие сессии это
// нормальный ответ, не ошибка.
func (h *AuthHandler) WhoIsMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, _ := h.sessionFromCookie(r)
	if session == nil {
		h.sendJSON(w, api.WhoIsMeResponse{Success: true, Session: false}, http.StatusOK)
		return
	}

	user, err := h.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get session user", slog.Any("error", err))
		h.sendJSON(w, api.WhoIsMeResponse{Success: true, Session: false}, http.StatusOK)
		return
	}

	h.sendJSON(w, api.WhoIsMeResponse{
		Success: true,
		Session: true,
		Data:    user.Payload(),
	}, http.StatusOK)
}

// Logout обрабатывает POST /api/auth/logout
// Удаляет сессию и чистит cookie. Клиенты считают ошибки некритичными.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cookie, err := r.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		session, err := h.sessions.GetSessionByRefreshToken(ctx, cookie.Value)
		if err == nil {
			if err := h.sessions.DeleteSession(ctx, session.ID); err != nil {
				h.logger.WarnContext(ctx, "failed to delete session", slog.Any("error", err))
			} else {
				h.logger.InfoContext(ctx, "user logged out", slog.Int64("user_id", session.UserID))
			}
		}
	}

	h.clearAuthCookies(w)
	h.sendJSON(w, api.ErrorResponse{Success: true, Message: "Logged out"}, http.StatusOK)
}

// Revoke обрабатывает POST /api/auth/revoke/{userID}
// Принудительно отзывает все сессии пользователя (admin/superadmin).
// Следующий запрос клиента с токеном этой сессии получит 401
// "Session has been revoked".
func (h *AuthHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	role, ok := RoleFromContext(ctx)
	if !ok || (role != "admin" && role != "superadmin") {
		h.sendError(w, "insufficient permissions", http.StatusForbidden)
		return
	}

	userID, err := strconv.ParseInt(r.PathValue("userID"), 10, 64)
	if err != nil {
		h.sendError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	count, err := h.sessions.RevokeUserSessions(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to revoke sessions", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user sessions revoked",
		slog.Int64("target_user_id", userID),
		slog.Int("revoked", count))

	h.sendJSON(w, api.ErrorResponse{Success: true, Message: "Sessions revoked"}, http.StatusOK)
}

// sessionFromCookie достает живую сессию по refresh cookie.
// Возвращает nil и причину отказа, если сессии нет.
func (h *AuthHandler) sessionFromCookie(r *http.Request) (*models.Session, string) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return nil, "refresh token is required"
	}

	session, err := h.sessions.GetSessionByRefreshToken(r.Context(), cookie.Value)
	if err != nil {
		return nil, "Session not found"
	}
	if session.Revoked() {
		return nil, "Session has been revoked"
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, "refresh token expired"
	}

	return session, ""
}

// setAuthCookies выставляет refresh cookie и флаг сессии
func (h *AuthHandler) setAuthCookies(w http.ResponseWriter, refreshToken string) {
	maxAge := int(h.jwtConfig.RefreshTokenTTL.Seconds())

	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     sessionFlagCookieName,
		Value:    "true",
		Path:     "/",
		MaxAge:   maxAge,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearAuthCookies удаляет refresh cookie и флаг сессии
func (h *AuthHandler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{refreshCookieName, sessionFlagCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// sendJSON отправляет JSON ответ
func (h *AuthHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	sendJSON(h.logger, w, data, statusCode)
}

// sendError отправляет JSON ответ с ошибкой
func (h *AuthHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	sendJSON(h.logger, w, api.ErrorResponse{Success: false, Message: message}, statusCode)
}

// sendJSON отправляет envelope ответ с заданным статусом
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}
