package session

import (
	"context"
	"log/slog"

	"github.com/edudesk/edudesk/internal/models"
	"github.com/edudesk/edudesk/pkg/api"
)

// Identifier спрашивает сервер, кому принадлежит текущая сессия
type Identifier interface {
	WhoIsMe(ctx context.Context) (*api.WhoIsMeResponse, error)
}

// Result содержит исход запроса идентичности
type Result struct {
	User          *models.User
	Authenticated bool
}

// Probe resolves "who is logged in" by asking the server, without
// touching bearer tokens. It shares the Store with the Coordinator and
// honors the same session-flag / clear-state contract.
type Probe struct {
	store  *Store
	client Identifier
}

// NewProbe создает probe поверх store и клиента
func NewProbe(store *Store, client Identifier) *Probe {
	return &Probe{store: store, client: client}
}

// CurrentUser issues one who-is-me call, credentials included.
//
// Server says session=true: the (possibly partial) user is normalized
// with safe defaults and the cached snapshot is refreshed. Server says
// session=false or success=false: state is cleared. A network or parse
// failure falls back to the cached snapshot when the session flag is
// still present, otherwise clears state.
func (p *Probe) CurrentUser(ctx context.Context) Result {
	resp, err := p.client.WhoIsMe(ctx)
	if err != nil {
		return p.fallback(err)
	}

	if !resp.Success || !resp.Session {
		p.clear()
		return Result{}
	}

	payload := resp.Data
	if payload == nil {
		// session=true без тела: пользователь есть, полей нет
		payload = &api.UserPayload{}
	}
	user := models.UserFromPayload(payload)

	// Обновляем снимок, чтобы следующий запуск мог отрисовать
	// пользователя до ответа сервера
	if err := p.store.SaveUser(user); err != nil {
		slog.Warn("failed to refresh user snapshot", "error", err)
	}

	return Result{Authenticated: true, User: user}
}

// fallback обрабатывает сетевую ошибку: снимок вместо сервера,
// если флаг сессии еще стоит
func (p *Probe) fallback(cause error) Result {
	if p.store.HasSessionFlag() {
		if user, err := p.store.CachedUser(); err == nil && user != nil {
			slog.Debug("who-is-me failed, using cached snapshot", "error", cause)
			return Result{Authenticated: true, User: user}
		}
	}

	slog.Debug("who-is-me failed with no usable snapshot", "error", cause)
	p.clear()
	return Result{}
}

func (p *Probe) clear() {
	if err := p.store.Clear(); err != nil {
		slog.Warn("failed to clear session store", "error", err)
	}
}
