package api

// LoginRequest представляет запрос на вход администратора
type LoginRequest struct {
	Username string `json:"username"` // username пользователя
	Password string `json:"password"` // пароль (передается только по TLS)
}

// UserPayload is the loosely-typed user object as the server sends it.
// Fields may be missing or null; always go through models.UserFromPayload
// before handing the identity to anything downstream.
type UserPayload struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
	ID       int64   `json:"id"`
}

// RefreshData содержит полезную нагрузку успешного login/refresh
type RefreshData struct {
	AccessToken string      `json:"accessToken"` // JWT access token
	User        UserPayload `json:"user"`        // владелец сессии
}

// RefreshResponse представляет ответ POST /api/auth/refresh
type RefreshResponse struct {
	Message string       `json:"message,omitempty"`
	Data    *RefreshData `json:"data,omitempty"`
	Success bool         `json:"success"`
}

// LoginResponse представляет ответ POST /api/auth/login
// Формат совпадает с refresh: токен и владелец сессии.
type LoginResponse struct {
	Message string       `json:"message,omitempty"`
	Data    *RefreshData `json:"data,omitempty"`
	Success bool         `json:"success"`
}

// WhoIsMeResponse представляет ответ GET /api/auth/v1/who-is-me
type WhoIsMeResponse struct {
	Message string       `json:"message,omitempty"`
	Data    *UserPayload `json:"data,omitempty"`
	Success bool         `json:"success"`
	Session bool         `json:"session"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Message string `json:"message,omitempty"` // человекочитаемое сообщение
	Success bool   `json:"success"`
}
