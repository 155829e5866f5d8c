package storage

import "errors"

// Common client storage errors
var (
	// ErrCookieNotFound indicates that no cookie with the given name exists
	ErrCookieNotFound = errors.New("cookie not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
