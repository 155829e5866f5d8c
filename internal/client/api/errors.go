package api

import (
	"errors"
	"fmt"
)

// Классифицированные ошибки API клиента
var (
	// ErrSessionRevoked indicates the server declared the session dead:
	// a 401 with one of the recognized revocation messages.
	ErrSessionRevoked = errors.New("session has been revoked")

	// ErrNoResponse indicates a transport-level failure: the request
	// never produced an HTTP response.
	ErrNoResponse = errors.New("no response received")
)

// APIError представляет ошибку, которую сервер вернул в envelope
type APIError struct {
	Message    string // сообщение из тела ответа либо generic status text
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}
