package cache

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradelink/internal/domain/entity"
)

func newTestCache(t *testing.T) *SessionCache {
	t.Helper()

	c := NewSessionCache(time.Hour, time.Minute)
	t.Cleanup(c.Close)

	return c
}

func TestSessionCache_PutAndGet(t *testing.T) {
	c := newTestCache(t)
	userID := uuid.New()

	c.Put(Session{UserID: userID, Role: entity.RoleRetailer, RefreshToken: "tok-1"})

	session, ok := c.Get("tok-1")
	require.True(t, ok)
	assert.Equal(t, userID, session.UserID)
	assert.False(t, session.ExpiresAt.IsZero(), "default TTL applied when unset")

	_, ok = c.Get("tok-2")
	assert.False(t, ok)
}

func TestSessionCache_ExpiredSessionReadsAsAbsent(t *testing.T) {
	c := newTestCache(t)

	c.Put(Session{UserID: uuid.New(), RefreshToken: "tok-1", ExpiresAt: time.Now().Add(-time.Second)})

	_, ok := c.Get("tok-1")
	assert.False(t, ok)
}

func TestSessionCache_DeleteByUserRemovesAllSessions(t *testing.T) {
	c := newTestCache(t)
	userID := uuid.New()

	c.Put(Session{UserID: userID, RefreshToken: "phone"})
	c.Put(Session{UserID: userID, RefreshToken: "laptop"})
	c.Put(Session{UserID: uuid.New(), RefreshToken: "other"})

	c.DeleteByUser(userID)

	_, ok := c.Get("phone")
	assert.False(t, ok)
	_, ok = c.Get("laptop")
	assert.False(t, ok)
	_, ok = c.Get("other")
	assert.True(t, ok)
}

func TestSessionCache_PushTokensFiltersAndDeduplicates(t *testing.T) {
	c := newTestCache(t)
	a := uuid.New()
	b := uuid.New()

	c.Put(Session{UserID: a, RefreshToken: "a-phone", PushToken: "fcm-a"})
	c.Put(Session{UserID: a, RefreshToken: "a-tablet", PushToken: "fcm-a"})
	c.Put(Session{UserID: b, RefreshToken: "b-phone", PushToken: "fcm-b"})
	c.Put(Session{UserID: uuid.New(), RefreshToken: "no-push"})

	tokens := c.PushTokens([]uuid.UUID{a})
	assert.Equal(t, []string{"fcm-a"}, tokens)

	all := c.PushTokens(nil)
	assert.ElementsMatch(t, []string{"fcm-a", "fcm-b"}, all)
}

func TestSessionCache_SweepDropsExpired(t *testing.T) {
	c := newTestCache(t)

	c.Put(Session{UserID: uuid.New(), RefreshToken: "stale", ExpiresAt: time.Now().Add(-time.Minute)})
	c.Put(Session{UserID: uuid.New(), RefreshToken: "fresh"})

	c.sweep()

	c.mu.RLock()
	defer c.mu.RUnlock()
	assert.Len(t, c.sessions, 1)
	_, ok := c.sessions["fresh"]
	assert.True(t, ok)
}
