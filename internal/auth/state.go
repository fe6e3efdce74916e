package auth

import (
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"
)

const stateTTL = 5 * time.Minute

// stateStore remembers issued OAuth states and the page each login started
// from. States are single use and expire after stateTTL.
type stateStore struct {
	mu    sync.Mutex
	items map[string]pendingLogin
	now   func() time.Time
}

type pendingLogin struct {
	next    string
	expires time.Time
}

func newStateStore() *stateStore {
	return &stateStore{items: make(map[string]pendingLogin), now: time.Now}
}

func (s *stateStore) put(state, next string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, p := range s.items {
		if now.After(p.expires) {
			delete(s.items, k)
		}
	}
	s.items[state] = pendingLogin{next: next, expires: now.Add(stateTTL)}
}

// consume returns the stored next path and whether state was live.
func (s *stateStore) consume(state string) (string, bool) {
	if state == "" {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[state]
	delete(s.items, state)
	if !ok || s.now().After(p.expires) {
		return "", false
	}
	return p.next, true
}

// safeNext keeps only site-relative paths so the login cannot redirect
// off-site.
func safeNext(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, "\\") {
		return ""
	}
	return raw
}

func appendToken(rawURL, token, next string) (string, error) {
	if rawURL == "" {
		return "", errors.New("redirect url required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	if next != "" {
		q.Set("next", next)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
