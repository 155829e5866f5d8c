package session

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/edudesk/edudesk/internal/client/storage"
	"github.com/edudesk/edudesk/pkg/api"
)

const testHost = "api.school.local"

// memJar это in-memory реализация storage.CookieJar для тестов
type memJar struct {
	mu      sync.Mutex
	cookies map[string]map[string]*http.Cookie // host -> name -> cookie
}

func newMemJar() *memJar {
	return &memJar{cookies: make(map[string]map[string]*http.Cookie)}
}

func (j *memJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	host := u.Hostname()
	for _, c := range cookies {
		if c.MaxAge < 0 {
			delete(j.cookies[host], c.Name)
			continue
		}
		if j.cookies[host] == nil {
			j.cookies[host] = make(map[string]*http.Cookie)
		}
		j.cookies[host][c.Name] = c
	}
}

func (j *memJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []*http.Cookie
	for _, c := range j.cookies[u.Hostname()] {
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}

func (j *memJar) Get(host, name string) (*http.Cookie, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	c, ok := j.cookies[host][name]
	if !ok {
		return nil, storage.ErrCookieNotFound
	}
	return c, nil
}

func (j *memJar) Set(host string, c *http.Cookie) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cookies[host] == nil {
		j.cookies[host] = make(map[string]*http.Cookie)
	}
	j.cookies[host][c.Name] = c
	return nil
}

func (j *memJar) Delete(host string, names ...string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, name := range names {
		delete(j.cookies[host], name)
	}
	return nil
}

// mockRefresher считает сетевые вызовы и отдает заранее заданный ответ.
// release, если задан, блокирует вызов до закрытия канала.
type mockRefresher struct {
	calls   atomic.Int64
	resp    *api.RefreshResponse
	err     error
	release chan struct{}
}

func (m *mockRefresher) Refresh(ctx context.Context) (*api.RefreshResponse, error) {
	m.calls.Add(1)
	if m.release != nil {
		select {
		case <-m.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

// mockIdentifier отдает заранее заданный ответ who-is-me
type mockIdentifier struct {
	resp  *api.WhoIsMeResponse
	err   error
	calls atomic.Int64
}

func (m *mockIdentifier) WhoIsMe(ctx context.Context) (*api.WhoIsMeResponse, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

// mintToken выпускает HS256 токен с заданным exp
func mintToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": int64(1),
		"exp": exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

// setSessionFlag имитирует серверную cookie флага сессии
func setSessionFlag(t *testing.T, jar *memJar) {
	t.Helper()
	require.NoError(t, jar.Set(testHost, &http.Cookie{Name: cookieSessionFlag, Value: sessionFlagValue}))
}
