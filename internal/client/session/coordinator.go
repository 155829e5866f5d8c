package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/edudesk/edudesk/internal/client/token"
	"github.com/edudesk/edudesk/internal/models"
	"github.com/edudesk/edudesk/pkg/api"
)

// State описывает фазу, в которой находится координатор
type State int

const (
	// StateUnauthenticated - сессии нет, либо refresh провалился
	StateUnauthenticated State = iota
	// StateChecking - refresh в полете, исход еще неизвестен
	StateChecking
	// StateAuthenticated - есть рабочий токен
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Refresher выполняет сетевой refresh вызов
type Refresher interface {
	// Refresh запрашивает новый access token по refresh cookie
	Refresh(ctx context.Context) (*api.RefreshResponse, error)
}

// refreshCall is the shared pending-refresh handle. The token field is
// written before done is closed; waiters read it only after <-done.
type refreshCall struct {
	done  chan struct{}
	token string
	user  *models.User
}

// Coordinator выдает рабочий access token, выполняя при необходимости
// ровно один сетевой refresh на всех конкурентных вызывающих.
//
// Единственный писатель токена в Store во время refresh; остальные
// компоненты только читают Store или зовут Clear.
type Coordinator struct {
	store     *Store
	validator *token.Validator
	client    Refresher

	mu        sync.Mutex
	candidate string // токен в памяти, быстрый путь
	user      *models.User
	lastErr   error
	state     State
	pending   *refreshCall
}

// NewCoordinator создает координатор поверх store, валидатора и клиента
func NewCoordinator(store *Store, validator *token.Validator, client Refresher) *Coordinator {
	return &Coordinator{
		store:     store,
		validator: validator,
		client:    client,
	}
}

// AccessToken returns a usable bearer token or "" when none can be had.
// Safe for concurrent use from unrelated call sites. It never returns an
// error: every failure inside resolves to "" with the state cleared, and
// Err exposes the cause for anyone who cares.
func (c *Coordinator) AccessToken(ctx context.Context) string {
	c.mu.Lock()

	// 1. Нет флага сессии - сервер сказал, что сессии нет.
	// Чистим все, токены даже не смотрим.
	if !c.store.HasSessionFlag() {
		c.clearLocked(nil)
		c.mu.Unlock()
		return ""
	}

	// 2. Быстрый путь: кандидат в памяти еще годен
	if c.candidate != "" && c.validator.Valid(c.candidate) {
		c.mu.Unlock()
		return c.candidate
	}

	// 3-4. Читаем из store, при попадании в cookie продвигаем
	// токен в волатильный слот
	if stored, src := c.store.Read(); stored != "" && c.validator.Valid(stored) {
		c.candidate = stored
		c.state = StateAuthenticated
		if src == SourceCookie {
			c.store.Promote(stored)
		}
		c.mu.Unlock()
		return stored
	}

	// 5a. Refresh уже в полете - ждем его исход, второй сетевой
	// вызов не запускаем
	if c.pending != nil {
		call := c.pending
		c.mu.Unlock()
		select {
		case <-call.done:
			return call.token
		case <-ctx.Done():
			// Таймаут ожидания равнозначен сетевой ошибке
			return ""
		}
	}

	// 5b. Мы первые - занимаем слот и делаем единственный вызов
	call := &refreshCall{done: make(chan struct{})}
	c.pending = call
	c.state = StateChecking
	c.mu.Unlock()

	tok, user := c.refresh(ctx)

	c.mu.Lock()
	call.token = tok
	call.user = user
	// Слот чистится при любом исходе: следующий протухший токен
	// запустит новый refresh, а не получит этот результат
	c.pending = nil
	c.mu.Unlock()
	close(call.done)

	return tok
}

// refresh выполняет сетевой вызов и раскладывает результат по слоям.
// Любой провал чистит все состояние и возвращает пустой токен.
func (c *Coordinator) refresh(ctx context.Context) (string, *models.User) {
	resp, err := c.client.Refresh(ctx)
	if err != nil {
		c.fail(fmt.Errorf("refresh failed: %w", err))
		return "", nil
	}

	if !resp.Success || resp.Data == nil || resp.Data.AccessToken == "" {
		msg := resp.Message
		if msg == "" {
			msg = "server rejected refresh"
		}
		c.fail(errors.New(msg))
		return "", nil
	}

	// Свежевыданный токен проходит ту же проверку с буфером,
	// что и кешированный
	tok := resp.Data.AccessToken
	if !c.validator.Valid(tok) {
		c.fail(errors.New("refreshed token is not usable"))
		return "", nil
	}

	user := models.UserFromPayload(&resp.Data.User)
	if err := c.store.Write(tok); err != nil {
		slog.Warn("failed to persist refreshed token", "error", err)
	}
	if user != nil {
		if err := c.store.SaveUser(user); err != nil {
			slog.Warn("failed to persist user snapshot", "error", err)
		}
	}

	c.mu.Lock()
	c.candidate = tok
	c.user = user
	c.lastErr = nil
	c.state = StateAuthenticated
	c.mu.Unlock()

	return tok, user
}

// fail записывает причину и чистит все состояние авторизации
func (c *Coordinator) fail(err error) {
	slog.Debug("refresh resolved to unauthenticated", "error", err)
	c.mu.Lock()
	c.clearLocked(err)
	c.mu.Unlock()
}

// Clear сбрасывает все состояние авторизации: память, store, cookie.
// Используется при logout и при сигнале отзыва сессии.
func (c *Coordinator) Clear() {
	c.mu.Lock()
	c.clearLocked(nil)
	c.mu.Unlock()
}

func (c *Coordinator) clearLocked(cause error) {
	c.candidate = ""
	c.user = nil
	c.lastErr = cause
	c.state = StateUnauthenticated
	if err := c.store.Clear(); err != nil {
		slog.Warn("failed to clear session store", "error", err)
	}
}

// State возвращает текущую фазу координатора
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CurrentUser возвращает идентичность, полученную последним refresh
func (c *Coordinator) CurrentUser() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// Err возвращает причину последнего провала, если она была
func (c *Coordinator) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
