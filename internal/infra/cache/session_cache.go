// Package cache holds the in-memory session store. Refresh sessions are
// process-local state and are intentionally lost on restart.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"tradelink/internal/domain/entity"
)

// Session is one issued refresh session.
type Session struct {
	UserID       uuid.UUID
	Role         entity.Role
	RefreshToken string
	PushToken    string // FCM registration token, empty when push is off.
	ExpiresAt    time.Time
}

// SessionCache is a TTL keyed store of refresh sessions. Expired entries
// are swept by a janitor goroutine and also rejected on read.
type SessionCache struct {
	mu       sync.RWMutex
	sessions map[string]Session

	ttl      time.Duration
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewSessionCache builds the cache and starts the janitor.
func NewSessionCache(ttl, cleanupInterval time.Duration) *SessionCache {
	ctx, cancel := context.WithCancel(context.Background())
	c := &SessionCache{
		sessions: make(map[string]Session),
		ttl:      ttl,
		interval: cleanupInterval,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go c.janitor(ctx)

	return c
}

// Put stores a session under its refresh token.
func (c *SessionCache) Put(session Session) {
	if session.ExpiresAt.IsZero() {
		session.ExpiresAt = time.Now().Add(c.ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[session.RefreshToken] = session
}

// Get returns the session for a refresh token. Expired sessions read as
// absent even before the janitor sweeps them.
func (c *SessionCache) Get(refreshToken string) (Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	session, ok := c.sessions[refreshToken]
	if !ok || time.Now().After(session.ExpiresAt) {
		return Session{}, false
	}

	return session, true
}

// Delete removes a session, ending it.
func (c *SessionCache) Delete(refreshToken string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, refreshToken)
}

// DeleteByUser removes every session belonging to one user. Used when an
// account is suspended.
func (c *SessionCache) DeleteByUser(userID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for token, session := range c.sessions {
		if session.UserID == userID {
			delete(c.sessions, token)
		}
	}
}

// PushTokens returns the registered push tokens of the given users,
// deduplicated. An empty user list returns every registered token.
func (c *SessionCache) PushTokens(userIDs []uuid.UUID) []string {
	wanted := make(map[uuid.UUID]struct{}, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = struct{}{}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	now := time.Now()
	seen := make(map[string]struct{})
	var tokens []string
	for _, session := range c.sessions {
		if session.PushToken == "" || now.After(session.ExpiresAt) {
			continue
		}
		if len(wanted) > 0 {
			if _, ok := wanted[session.UserID]; !ok {
				continue
			}
		}
		if _, dup := seen[session.PushToken]; dup {
			continue
		}
		seen[session.PushToken] = struct{}{}
		tokens = append(tokens, session.PushToken)
	}

	return tokens
}

// Sessions returns a snapshot of every live session. Used by the push
// forwarder to resolve notification recipients.
func (c *SessionCache) Sessions() []Session {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := time.Now()
	out := make([]Session, 0, len(c.sessions))
	for _, session := range c.sessions {
		if now.After(session.ExpiresAt) {
			continue
		}
		out = append(out, session)
	}

	return out
}

// Close stops the janitor.
func (c *SessionCache) Close() {
	c.cancel()
	<-c.done
}

func (c *SessionCache) janitor(ctx context.Context) {
	defer close(c.done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *SessionCache) sweep() {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	for token, session := range c.sessions {
		if now.After(session.ExpiresAt) {
			delete(c.sessions, token)
		}
	}
}
