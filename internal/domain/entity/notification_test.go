package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNotification_VisibleTo(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	own := Notification{UserID: RecipientUser(owner)}
	assert.True(t, own.VisibleTo(owner, RoleRetailer))
	assert.False(t, own.VisibleTo(stranger, RoleAdmin), "direct notifications are private even to admins")

	adminOnly := Notification{UserID: ChannelAdmin}
	assert.True(t, adminOnly.VisibleTo(stranger, RoleAdmin))
	assert.False(t, adminOnly.VisibleTo(stranger, RoleSupport))
	assert.False(t, adminOnly.VisibleTo(stranger, RoleWholesaler))

	supportChannel := Notification{UserID: ChannelSupport}
	assert.True(t, supportChannel.VisibleTo(stranger, RoleSupport))
	assert.True(t, supportChannel.VisibleTo(stranger, RoleAdmin))
	assert.False(t, supportChannel.VisibleTo(stranger, RoleRetailer))

	for _, channel := range []RecipientToken{ChannelSystem, ChannelAll} {
		broadcast := Notification{UserID: channel}
		assert.True(t, broadcast.VisibleTo(stranger, RoleRetailer))
		assert.True(t, broadcast.VisibleTo(stranger, RoleWholesaler))
	}
}

func TestSortNotifications_PriorityThenRecency(t *testing.T) {
	base := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	ns := []Notification{
		{Title: "old low", Priority: PriorityLow, CreatedAt: base},
		{Title: "new medium", Priority: PriorityMedium, CreatedAt: base.Add(2 * time.Hour)},
		{Title: "urgent", Priority: PriorityUrgent, CreatedAt: base.Add(-time.Hour)},
		{Title: "old medium", Priority: PriorityMedium, CreatedAt: base.Add(time.Hour)},
	}

	SortNotifications(ns)

	titles := make([]string, len(ns))
	for i, n := range ns {
		titles[i] = n.Title
	}
	assert.Equal(t, []string{"urgent", "new medium", "old medium", "old low"}, titles)
}
