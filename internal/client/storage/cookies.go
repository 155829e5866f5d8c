package storage

import "net/http"

// CookieJar is the client's persistent cookie store. It plays two roles:
// as an http.CookieJar it carries the server-issued cookies (refresh token,
// session flag) on outgoing requests, and through the direct accessors the
// session store reads and writes its own cookie-persisted items (access
// token, identity snapshot).
//
// This is the lowest storage layer - it persists cookies as-is and knows
// nothing about what they mean.
type CookieJar interface {
	http.CookieJar

	// Get returns the stored, unexpired cookie with the given name for host.
	// Returns ErrCookieNotFound if no such cookie exists.
	Get(host, name string) (*http.Cookie, error)

	// Set stores a single cookie for host, replacing any previous value.
	Set(host string, cookie *http.Cookie) error

	// Delete removes the named cookies for host. Missing names are not an error.
	Delete(host string, names ...string) error
}
