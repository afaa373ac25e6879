package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Sumatoshi-tech/surveycharts/pkg/prefs"
)

const cookieMaxAge = 365 * 24 * time.Hour

// cookieStore keeps the preferences of one browser in cookies. It lives for a
// single request: reads come from the request, writes go to the response.
type cookieStore struct {
	prefix string
	req    *http.Request
	rw     http.ResponseWriter

	mu      sync.Mutex
	written map[string]string
}

func newCookieStore(prefix string, rw http.ResponseWriter, req *http.Request) *cookieStore {
	return &cookieStore{
		prefix:  prefix,
		req:     req,
		rw:      rw,
		written: make(map[string]string),
	}
}

// Get implements prefs.Store.
func (s *cookieStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	value, ok := s.written[key]
	s.mu.Unlock()

	if ok {
		return value, true, nil
	}

	cookie, err := s.req.Cookie(s.cookieName(key))
	if err != nil {
		return "", false, nil //nolint:nilerr // a missing cookie is an unset preference.
	}

	return cookie.Value, true, nil
}

// Set implements prefs.Store.
func (s *cookieStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	s.written[key] = value
	s.mu.Unlock()

	http.SetCookie(s.rw, &http.Cookie{
		Name:     s.cookieName(key),
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieMaxAge / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

// cookieName maps a preference key to its cookie. The theme key uses the
// configured name unchanged.
func (s *cookieStore) cookieName(key string) string {
	if key == prefs.KeyTheme {
		return s.prefix
	}

	return s.prefix + "_" + key
}
