package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNotAuthenticated возвращается Guard, когда рабочего токена нет
var ErrNotAuthenticated = errors.New("not authenticated")

// Guard gates protected operations behind the Coordinator. An operation
// runs only with a usable token; otherwise the redirect callback fires
// once per unauthenticated episode and the operation is rejected.
//
// The guard owns no auth state of its own, it delegates to the
// coordinator. Navigation is the callback's business.
type Guard struct {
	coordinator *Coordinator
	redirect    func()

	mu         sync.Mutex
	redirected bool
}

// NewGuard создает guard.
// redirect вызывается при обнаружении неавторизованного состояния;
// повторные отказы подряд не вызывают его снова.
func NewGuard(coordinator *Coordinator, redirect func()) *Guard {
	return &Guard{coordinator: coordinator, redirect: redirect}
}

// Protect runs fn with a usable bearer token. Without one it returns
// ErrNotAuthenticated and fires the redirect callback, at most once
// until the next successful pass resets the latch.
func (g *Guard) Protect(ctx context.Context, fn func(ctx context.Context, token string) error) error {
	tok := g.coordinator.AccessToken(ctx)
	if tok == "" {
		g.mu.Lock()
		fire := !g.redirected
		g.redirected = true
		g.mu.Unlock()

		if fire && g.redirect != nil {
			g.redirect()
		}
		return ErrNotAuthenticated
	}

	g.mu.Lock()
	g.redirected = false
	g.mu.Unlock()

	return fn(ctx, tok)
}

// State возвращает фазу координатора
func (g *Guard) State() State {
	return g.coordinator.State()
}
