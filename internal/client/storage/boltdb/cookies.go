package boltdb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.etcd.io/bbolt"

	"github.com/edudesk/edudesk/internal/client/storage"
)

// Compile-time check that Storage implements storage.CookieJar
var _ storage.CookieJar = (*Storage)(nil)

// storedCookie это сериализованная форма cookie в BoltDB
type storedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Expires  time.Time `json:"expires"` // нулевое время = session cookie, живет бессрочно
	HTTPOnly bool      `json:"httpOnly,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
}

func (c *storedCookie) expired(now time.Time) bool {
	return !c.Expires.IsZero() && !c.Expires.After(now)
}

// cookieKey строит ключ bucket для пары host/name
func cookieKey(host, name string) []byte {
	return []byte(host + "\x00" + name)
}

// SetCookies implements http.CookieJar: persists the cookies the server set
// in a response. A cookie with MaxAge < 0 or an expiry in the past deletes
// the stored one.
func (s *Storage) SetCookies(u *url.URL, cookies []*http.Cookie) {
	host := u.Hostname()
	now := time.Now()

	// Ошибки записи здесь глотать нельзя полностью, но интерфейс
	// http.CookieJar не возвращает error; паника тоже не вариант.
	// Последующее чтение просто не найдет cookie.
	_ = s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCookies)
		if bucket == nil {
			return fmt.Errorf("cookies bucket not found")
		}

		for _, c := range cookies {
			key := cookieKey(host, c.Name)

			sc := storedCookie{
				Name:     c.Name,
				Value:    c.Value,
				Path:     c.Path,
				HTTPOnly: c.HttpOnly,
				Secure:   c.Secure,
			}
			switch {
			case c.MaxAge < 0:
				if err := bucket.Delete(key); err != nil {
					return err
				}
				continue
			case c.MaxAge > 0:
				sc.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
			case !c.Expires.IsZero():
				sc.Expires = c.Expires
			}
			if sc.expired(now) {
				if err := bucket.Delete(key); err != nil {
					return err
				}
				continue
			}

			data, err := json.Marshal(&sc)
			if err != nil {
				return err
			}
			if err := bucket.Put(key, data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Cookies implements http.CookieJar: returns all unexpired cookies stored
// for the request host.
func (s *Storage) Cookies(u *url.URL) []*http.Cookie {
	host := u.Hostname()
	prefix := []byte(host + "\x00")
	now := time.Now()

	var cookies []*http.Cookie
	_ = s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCookies)
		if bucket == nil {
			return nil
		}

		c := bucket.Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var sc storedCookie
			if err := json.Unmarshal(v, &sc); err != nil {
				continue // битую запись пропускаем
			}
			if sc.expired(now) {
				continue
			}
			cookies = append(cookies, &http.Cookie{Name: sc.Name, Value: sc.Value})
		}
		return nil
	})

	return cookies
}

// Get returns the stored, unexpired cookie with the given name for host
func (s *Storage) Get(host, name string) (*http.Cookie, error) {
	var cookie *http.Cookie

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCookies)
		if bucket == nil {
			return fmt.Errorf("cookies bucket not found")
		}

		data := bucket.Get(cookieKey(host, name))
		if data == nil {
			return storage.ErrCookieNotFound
		}

		var sc storedCookie
		if err := json.Unmarshal(data, &sc); err != nil {
			return fmt.Errorf("failed to unmarshal cookie: %w", err)
		}
		if sc.expired(time.Now()) {
			return storage.ErrCookieNotFound
		}

		cookie = &http.Cookie{
			Name:     sc.Name,
			Value:    sc.Value,
			Path:     sc.Path,
			Expires:  sc.Expires,
			HttpOnly: sc.HTTPOnly,
			Secure:   sc.Secure,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return cookie, nil
}

// Set stores a single cookie for host, replacing any previous value
func (s *Storage) Set(host string, c *http.Cookie) error {
	sc := storedCookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Expires:  c.Expires,
		HTTPOnly: c.HttpOnly,
		Secure:   c.Secure,
	}
	if c.MaxAge > 0 {
		sc.Expires = time.Now().Add(time.Duration(c.MaxAge) * time.Second)
	}

	data, err := json.Marshal(&sc)
	if err != nil {
		return fmt.Errorf("failed to marshal cookie: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCookies)
		if bucket == nil {
			return fmt.Errorf("cookies bucket not found")
		}
		if err := bucket.Put(cookieKey(host, c.Name), data); err != nil {
			return fmt.Errorf("failed to save cookie: %w", err)
		}
		return nil
	})
}

// Delete removes the named cookies for host
func (s *Storage) Delete(host string, names ...string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCookies)
		if bucket == nil {
			return fmt.Errorf("cookies bucket not found")
		}
		for _, name := range names {
			if err := bucket.Delete(cookieKey(host, name)); err != nil {
				return fmt.Errorf("failed to delete cookie %q: %w", name, err)
			}
		}
		return nil
	})
}
