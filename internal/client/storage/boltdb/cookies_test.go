package boltdb

import (
	"context"
	"net/http"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edudesk/edudesk/internal/client/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "client.db")
	s, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func TestCookies_SetGet(t *testing.T) {
	s := newTestStorage(t)

	err := s.Set("api.school.local", &http.Cookie{
		Name:   "edudesk_access",
		Value:  "token-123",
		MaxAge: 3600,
	})
	require.NoError(t, err)

	c, err := s.Get("api.school.local", "edudesk_access")
	require.NoError(t, err)
	assert.Equal(t, "token-123", c.Value)
	// MaxAge конвертируется в абсолютный Expires
	assert.WithinDuration(t, time.Now().Add(time.Hour), c.Expires, 5*time.Second)
}

func TestCookies_GetNotFound(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.Get("api.school.local", "missing")
	assert.ErrorIs(t, err, storage.ErrCookieNotFound)
}

func TestCookies_ExpiredCookieIsInvisible(t *testing.T) {
	s := newTestStorage(t)

	err := s.Set("api.school.local", &http.Cookie{
		Name:    "edudesk_access",
		Value:   "stale",
		Expires: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	_, err = s.Get("api.school.local", "edudesk_access")
	assert.ErrorIs(t, err, storage.ErrCookieNotFound)

	u, _ := url.Parse("http://api.school.local/api/students")
	assert.Empty(t, s.Cookies(u))
}

func TestCookies_JarRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	u, err := url.Parse("http://api.school.local/api/auth/login")
	require.NoError(t, err)

	// Сервер выставляет cookie через Set-Cookie
	s.SetCookies(u, []*http.Cookie{
		{Name: "edudesk_refresh", Value: "r-1", MaxAge: 7 * 24 * 3600, HttpOnly: true},
		{Name: "edudesk_session", Value: "true", MaxAge: 7 * 24 * 3600},
	})

	got := s.Cookies(u)
	require.Len(t, got, 2)

	names := map[string]string{}
	for _, c := range got {
		names[c.Name] = c.Value
	}
	assert.Equal(t, "r-1", names["edudesk_refresh"])
	assert.Equal(t, "true", names["edudesk_session"])
}

func TestCookies_NegativeMaxAgeDeletes(t *testing.T) {
	s := newTestStorage(t)

	u, _ := url.Parse("http://api.school.local/")
	s.SetCookies(u, []*http.Cookie{{Name: "edudesk_session", Value: "true", MaxAge: 3600}})

	_, err := s.Get("api.school.local", "edudesk_session")
	require.NoError(t, err)

	// Сервер очищает cookie (logout)
	s.SetCookies(u, []*http.Cookie{{Name: "edudesk_session", Value: "", MaxAge: -1}})

	_, err = s.Get("api.school.local", "edudesk_session")
	assert.ErrorIs(t, err, storage.ErrCookieNotFound)
}

func TestCookies_Delete(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.Set("h", &http.Cookie{Name: "a", Value: "1"}))
	require.NoError(t, s.Set("h", &http.Cookie{Name: "b", Value: "2"}))

	require.NoError(t, s.Delete("h", "a", "b", "missing"))

	_, err := s.Get("h", "a")
	assert.ErrorIs(t, err, storage.ErrCookieNotFound)
	_, err = s.Get("h", "b")
	assert.ErrorIs(t, err, storage.ErrCookieNotFound)
}

func TestCookies_SurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "client.db")

	s, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Set("api.school.local", &http.Cookie{Name: "edudesk_user", Value: "snapshot", MaxAge: 86400}))
	require.NoError(t, s.Close())

	// Повторное открытие того же файла видит cookie
	s2, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	defer func() { _ = s2.Close() }()

	c, err := s2.Get("api.school.local", "edudesk_user")
	require.NoError(t, err)
	assert.Equal(t, "snapshot", c.Value)
}

func TestCookies_HostIsolation(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.Set("a.local", &http.Cookie{Name: "edudesk_access", Value: "for-a"}))

	_, err := s.Get("b.local", "edudesk_access")
	assert.ErrorIs(t, err, storage.ErrCookieNotFound)

	u, _ := url.Parse("http://b.local/")
	assert.Empty(t, s.Cookies(u))
}
