package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultExpiryBuffer is the safety margin subtracted from a token's
// lifetime: a token inside the buffer window counts as expired so that no
// request races the real expiry. Must stay strictly below the minimum
// access-token TTL the backend issues.
const DefaultExpiryBuffer = 5 * time.Minute

// Validator decides whether a locally held access token is still usable.
// Оно только читает claim exp из payload без проверки подписи:
// подпись проверяет сервер, клиенту ключ недоступен.
type Validator struct {
	now    func() time.Time
	buffer time.Duration
}

// NewValidator creates a Validator with the given expiry buffer.
// A non-positive buffer falls back to DefaultExpiryBuffer.
func NewValidator(buffer time.Duration) *Validator {
	if buffer <= 0 {
		buffer = DefaultExpiryBuffer
	}
	return &Validator{
		buffer: buffer,
		now:    time.Now,
	}
}

// Valid reports whether the token decodes and its exp claim is further out
// than now plus the buffer. Any malformed input (empty string, wrong segment
// count, broken base64, missing exp) is simply invalid — Valid never panics
// and has no side effects.
func (v *Validator) Valid(tokenStr string) bool {
	if tokenStr == "" {
		return false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenStr, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Time.After(v.now().Add(v.buffer))
}
