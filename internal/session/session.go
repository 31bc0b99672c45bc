// Package session keeps one lab.Session per browser. Sessions live in
// process memory, are identified by a random cookie and expire after a
// period of inactivity.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"ailab/internal/lab"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "ailab_session"

	// DefaultTTL is how long an idle session is kept.
	DefaultTTL = 24 * time.Hour

	// DefaultSweepInterval is how often idle sessions are evicted.
	DefaultSweepInterval = 5 * time.Minute

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

type entry struct {
	sess     *lab.Session
	lastSeen time.Time
}

// Store is an in-memory session registry.
type Store struct {
	newSession func() *lab.Session
	secure     bool
	ttl        time.Duration
	now        func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

// NewStore creates a store that builds sessions with newSession. Secure
// marks the cookie as HTTPS-only.
func NewStore(newSession func() *lab.Session, secure bool) *Store {
	return &Store{
		newSession: newSession,
		secure:     secure,
		ttl:        DefaultTTL,
		now:        time.Now,
		entries:    make(map[string]*entry),
	}
}

// Load returns the session named by the request cookie. When the cookie is
// missing or names an expired session, a new session is created and its
// cookie set on the response.
func (s *Store) Load(w http.ResponseWriter, r *http.Request) (*lab.Session, error) {
	now := s.now()

	if cookie, err := r.Cookie(CookieName); err == nil {
		s.mu.Lock()
		e, ok := s.entries[cookie.Value]
		if ok && now.Sub(e.lastSeen) < s.ttl {
			e.lastSeen = now
			s.mu.Unlock()
			return e.sess, nil
		}
		s.mu.Unlock()
	}

	id, err := generateID()
	if err != nil {
		return nil, fmt.Errorf("session create: %w", err)
	}

	sess := s.newSession()
	s.mu.Lock()
	s.entries[id] = &entry{sess: sess, lastSeen: now}
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})

	return sess, nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed. Evicted sessions are closed outside the store lock because
// closing applies any pending transition.
func (s *Store) Sweep() int {
	now := s.now()

	var evicted []*lab.Session
	s.mu.Lock()
	for id, e := range s.entries {
		if now.Sub(e.lastSeen) >= s.ttl {
			evicted = append(evicted, e.sess)
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range evicted {
		sess.Close()
	}
	return len(evicted)
}

// Run sweeps every interval until ctx is cancelled. Live sessions are left
// open so in-flight requests can finish; call Close once the server has
// drained.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				slog.Info("evicted idle sessions", "count", n, "live", s.Len())
			}
		case <-ctx.Done():
			return
		}
	}
}

// Close closes and forgets every session.
func (s *Store) Close() {
	s.mu.Lock()
	entries := s.entries
	s.entries = make(map[string]*entry)
	s.mu.Unlock()

	for _, e := range entries {
		e.sess.Close()
	}
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
