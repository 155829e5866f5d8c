package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/edudesk/edudesk/pkg/api"
)

// revocationMarkers are the 401 messages that mean the server considers
// the session dead, as opposed to an ordinary authorization failure.
// Matched case-insensitively.
var revocationMarkers = []string{
	"session has been revoked",
	"session not found",
	"invalid or expired access token",
}

// Client представляет HTTP клиент для взаимодействия с сервером.
// Cookie jar несет серверные cookie (refresh token, session flag)
// на каждом запросе, что соответствует "credentials included".
type Client struct {
	httpClient *http.Client
	baseURL    string

	onRevoked func()
	onWarning func(msg string)
	onError   func(msg string)
}

// NewClient создает новый API клиент
func NewClient(baseURL string, jar http.CookieJar) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// OnRevoked registers the handler invoked when a response carries a
// session-revocation signal. The handler clears client auth state; any
// navigation belongs to the caller that receives ErrSessionRevoked.
func (c *Client) OnRevoked(fn func()) {
	c.onRevoked = fn
}

// OnWarning registers a hook invoked with the server message on 4xx
// responses before the error is returned.
func (c *Client) OnWarning(fn func(msg string)) {
	c.onWarning = fn
}

// OnError registers a hook invoked with the server message on 5xx
// responses before the error is returned.
func (c *Client) OnError(fn func(msg string)) {
	c.onError = fn
}

// Login выполняет вход администратора
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error) {
	var resp api.LoginResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", req, "", &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Refresh запрашивает новый access token.
// Тело пустое: сервер опознает сессию по refresh cookie из jar.
func (c *Client) Refresh(ctx context.Context) (*api.RefreshResponse, error) {
	var resp api.RefreshResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/refresh", nil, "", &resp); err != nil {
		return nil, fmt.Errorf("refresh request failed: %w", err)
	}
	return &resp, nil
}

// WhoIsMe спрашивает сервер, кому принадлежит текущая сессия
func (c *Client) WhoIsMe(ctx context.Context) (*api.WhoIsMeResponse, error) {
	var resp api.WhoIsMeResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/auth/v1/who-is-me", nil, "", &resp); err != nil {
		return nil, fmt.Errorf("who-is-me request failed: %w", err)
	}
	return &resp, nil
}

// Logout уведомляет сервер о выходе.
// Вызывающие считают ошибку некритичной и чистят локальное состояние
// в любом случае.
func (c *Client) Logout(ctx context.Context, token string) error {
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/logout", nil, token, nil); err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	return nil
}

// RevokeUser отзывает все сессии пользователя (admin/superadmin)
func (c *Client) RevokeUser(ctx context.Context, token string, userID int64) error {
	path := fmt.Sprintf("/api/auth/revoke/%d", userID)
	if err := c.doRequest(ctx, http.MethodPost, path, nil, token, nil); err != nil {
		return fmt.Errorf("revoke request failed: %w", err)
	}
	return nil
}

// ListStudents возвращает список учеников
func (c *Client) ListStudents(ctx context.Context, token string) (*api.StudentListResponse, error) {
	var resp api.StudentListResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/students", nil, token, &resp); err != nil {
		return nil, fmt.Errorf("list students request failed: %w", err)
	}
	return &resp, nil
}

// CreateStudent создает заявку на зачисление ученика
func (c *Client) CreateStudent(ctx context.Context, token string, req api.CreateStudentRequest) (*api.StudentResponse, error) {
	var resp api.StudentResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/students", req, token, &resp); err != nil {
		return nil, fmt.Errorf("create student request failed: %w", err)
	}
	return &resp, nil
}

// DeleteStudent удаляет ученика
func (c *Client) DeleteStudent(ctx context.Context, token string, id int64) error {
	path := fmt.Sprintf("/api/students/%d", id)
	if err := c.doRequest(ctx, http.MethodDelete, path, nil, token, nil); err != nil {
		return fmt.Errorf("delete student request failed: %w", err)
	}
	return nil
}

// UploadStudentPhoto загружает фото ученика как multipart form.
// Content-Type выставляет multipart writer, не клиент.
func (c *Client) UploadStudentPhoto(ctx context.Context, token string, id int64, filename string, photo io.Reader) (*api.StudentResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("photo", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, photo); err != nil {
		return nil, fmt.Errorf("failed to copy photo data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	path := fmt.Sprintf("/api/students/%d/photo", id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	var resp api.StudentResponse
	if err := c.send(req, &resp); err != nil {
		return nil, fmt.Errorf("upload photo request failed: %w", err)
	}
	return &resp, nil
}

// ListTeachers возвращает список преподавателей
func (c *Client) ListTeachers(ctx context.Context, token string) (*api.TeacherListResponse, error) {
	var resp api.TeacherListResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/teachers", nil, token, &resp); err != nil {
		return nil, fmt.Errorf("list teachers request failed: %w", err)
	}
	return &resp, nil
}

// doRequest выполняет JSON HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body any, token string, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.send(req, result)
}

// send отправляет запрос и разбирает envelope ответа
func (c *Client) send(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Ответ не получен вовсе: таймаут, обрыв, DNS
		return fmt.Errorf("%w: %v", ErrNoResponse, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.classifyError(resp.StatusCode, respBody)
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// classifyError превращает HTTP ошибку в классифицированную ошибку клиента
func (c *Client) classifyError(statusCode int, body []byte) error {
	message := http.StatusText(statusCode)
	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		message = errResp.Message
	}

	// 401 с сообщением об отзыве сессии: глобальный side effect
	if statusCode == http.StatusUnauthorized && isRevocationMessage(message) {
		if c.onRevoked != nil {
			c.onRevoked()
		}
		return fmt.Errorf("%w: %s", ErrSessionRevoked, message)
	}

	if statusCode >= 500 {
		if c.onError != nil {
			c.onError(message)
		}
	} else if c.onWarning != nil {
		c.onWarning(message)
	}

	return &APIError{StatusCode: statusCode, Message: message}
}

func isRevocationMessage(message string) bool {
	lower := strings.ToLower(message)
	for _, marker := range revocationMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
