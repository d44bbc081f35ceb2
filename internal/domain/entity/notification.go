package entity

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// NotificationType tags a notification with the domain area it came from.
type NotificationType string

const (
	// NotificationTypeUser covers registration and account events.
	NotificationTypeUser NotificationType = "user"
	// NotificationTypeOrder covers order lifecycle events.
	NotificationTypeOrder NotificationType = "order"
	// NotificationTypePromotion covers promotion moderation events.
	NotificationTypePromotion NotificationType = "promotion"
	// NotificationTypeSupport covers support ticket events.
	NotificationTypeSupport NotificationType = "support"
	// NotificationTypeReturn covers return request events.
	NotificationTypeReturn NotificationType = "return"
	// NotificationTypeSystem covers platform-wide announcements.
	NotificationTypeSystem NotificationType = "system"
)

// RecipientToken addresses a notification. It is either a concrete user ID
// in string form, or one of the symbolic channel tokens below.
type RecipientToken string

const (
	// ChannelAdmin addresses every admin user.
	ChannelAdmin RecipientToken = "admin"
	// ChannelSupport addresses every support user. Admins also match it.
	ChannelSupport RecipientToken = "support"
	// ChannelSystem addresses every user with a system-level notice.
	ChannelSystem RecipientToken = "system"
	// ChannelAll addresses every user.
	ChannelAll RecipientToken = "all"
)

// RecipientUser builds a recipient token for a concrete user.
func RecipientUser(id uuid.UUID) RecipientToken {
	return RecipientToken(id.String())
}

// Notification is a user-facing message derived from a domain event.
// It is only ever created as a side effect of a store action (or an explicit
// admin broadcast) and only ever mutated to flip its read flag.
type Notification struct {
	ID        uuid.UUID        `json:"id"`         // The GUID of the notification, unique per (event, recipient).
	UserID    RecipientToken   `json:"user_id"`    // The recipient: a user ID or a channel token.
	Type      NotificationType `json:"type"`       // The domain area the notification belongs to.
	Title     string           `json:"title"`      // Short headline.
	Message   string           `json:"message"`    // Full message body.
	Data      map[string]any   `json:"data"`       // Opaque payload used by the UI for navigation.
	Read      bool             `json:"read"`       // Whether the recipient has read the notification.
	Priority  Priority         `json:"priority"`   // Urgency of the notification.
	CreatedAt time.Time        `json:"created_at"` // Timestamp of the triggering action.
}

// VisibleTo is the single recipient-resolution predicate shared by listing,
// unread counting and mark-all-read. A viewer matches a notification when the
// recipient token is their own user ID, their role channel, or one of the
// broadcast channels. Admins additionally match the support channel.
func (n Notification) VisibleTo(userID uuid.UUID, role Role) bool {
	switch n.UserID {
	case RecipientUser(userID):
		return true
	case ChannelSystem, ChannelAll:
		return true
	case ChannelAdmin:
		return role == RoleAdmin
	case ChannelSupport:
		return role == RoleSupport || role == RoleAdmin
	default:
		return false
	}
}

// SortNotifications orders notifications for display: priority rank
// descending, then most recent first. The input slice is sorted in place.
func SortNotifications(ns []Notification) {
	sort.SliceStable(ns, func(i, j int) bool {
		if ns[i].Priority.Rank() != ns[j].Priority.Rank() {
			return ns[i].Priority.Rank() > ns[j].Priority.Rank()
		}

		return ns[i].CreatedAt.After(ns[j].CreatedAt)
	})
}
