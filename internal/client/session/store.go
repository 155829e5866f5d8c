package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/edudesk/edudesk/internal/client/storage"
	"github.com/edudesk/edudesk/internal/models"
	"github.com/edudesk/edudesk/pkg/api"
)

// Имена cookie, под которыми клиент хранит состояние сессии.
// Должны оставаться стабильными между запусками.
const (
	cookieAccessToken  = "edudesk_access"
	cookieSessionFlag  = "edudesk_session"
	cookieUserSnapshot = "edudesk_user"
)

const (
	// Access cookie живет час независимо от реального exp токена:
	// токен обновляется задолго до этого срока.
	accessCookieTTL = time.Hour

	// Снимок идентичности живет сутки, он нужен только для
	// оптимистичного отображения до ответа сервера.
	userSnapshotTTL = 24 * time.Hour
)

// sessionFlagValue это literal, которым сервер помечает живую сессию
const sessionFlagValue = "true"

// Source reports which backend a token was read from.
type Source int

const (
	SourceNone Source = iota
	SourceVolatile
	SourceCookie
)

// Store держит access token и сопутствующее состояние сессии в двух
// слоях: волатильный слот в памяти процесса и persistent cookie jar.
// Волатильный слот дешевле и проверяется первым.
type Store struct {
	jar  storage.CookieJar
	host string

	mu       sync.Mutex
	volatile string
}

// NewStore создает Store поверх cookie jar.
// host это хост API сервера, под которым хранятся cookie.
func NewStore(jar storage.CookieJar, host string) *Store {
	return &Store{jar: jar, host: host}
}

// Read returns the stored access token and the backend it came from.
// The volatile slot wins over the cookie. Callers that get a cookie hit
// should Promote the token so the next read is cheap.
func (s *Store) Read() (string, Source) {
	s.mu.Lock()
	v := s.volatile
	s.mu.Unlock()
	if v != "" {
		return v, SourceVolatile
	}

	c, err := s.jar.Get(s.host, cookieAccessToken)
	if err != nil || c.Value == "" {
		return "", SourceNone
	}
	return c.Value, SourceCookie
}

// Promote копирует токен в волатильный слот
func (s *Store) Promote(token string) {
	s.mu.Lock()
	s.volatile = token
	s.mu.Unlock()
}

// Write сохраняет токен в оба слоя
func (s *Store) Write(token string) error {
	s.mu.Lock()
	s.volatile = token
	s.mu.Unlock()

	err := s.jar.Set(s.host, &http.Cookie{
		Name:     cookieAccessToken,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(accessCookieTTL),
		SameSite: http.SameSiteLaxMode,
	})
	if err != nil {
		return fmt.Errorf("failed to persist access token: %w", err)
	}
	return nil
}

// Clear wipes the volatile slot, the access cookie, the session flag and
// the identity snapshot in one transaction. Leaving any of them behind
// would show a stale session after logout.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.volatile = ""
	s.mu.Unlock()

	err := s.jar.Delete(s.host, cookieAccessToken, cookieSessionFlag, cookieUserSnapshot)
	if err != nil {
		return fmt.Errorf("failed to clear session cookies: %w", err)
	}
	return nil
}

// HasSessionFlag reports whether the server-issued session flag cookie is
// present with the expected literal value. The flag is checked before any
// token work: its absence is the server's statement that no session exists.
func (s *Store) HasSessionFlag() bool {
	c, err := s.jar.Get(s.host, cookieSessionFlag)
	if err != nil {
		return false
	}
	return c.Value == sessionFlagValue
}

// SaveUser сохраняет base64 JSON снимок идентичности пользователя
func (s *Store) SaveUser(user *models.User) error {
	if user == nil {
		return errors.New("cannot save nil user")
	}

	data, err := json.Marshal(user.Payload())
	if err != nil {
		return fmt.Errorf("failed to marshal user snapshot: %w", err)
	}

	err = s.jar.Set(s.host, &http.Cookie{
		Name:     cookieUserSnapshot,
		Value:    base64.StdEncoding.EncodeToString(data),
		Path:     "/",
		Expires:  time.Now().Add(userSnapshotTTL),
		SameSite: http.SameSiteLaxMode,
	})
	if err != nil {
		return fmt.Errorf("failed to persist user snapshot: %w", err)
	}
	return nil
}

// CachedUser возвращает сохраненный снимок идентичности.
// Битый снимок равнозначен отсутствующему.
func (s *Store) CachedUser() (*models.User, error) {
	c, err := s.jar.Get(s.host, cookieUserSnapshot)
	if err != nil {
		return nil, fmt.Errorf("no cached user snapshot: %w", err)
	}

	data, err := base64.StdEncoding.DecodeString(c.Value)
	if err != nil {
		return nil, fmt.Errorf("corrupt user snapshot: %w", err)
	}

	var payload api.UserPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("corrupt user snapshot: %w", err)
	}

	return models.UserFromPayload(&payload), nil
}
