// Package store implements the in-memory domain store: a single state tree
// advanced only through a closed set of actions by a pure reducer, with
// notification derivation as part of the same transition and a dual-write
// dispatch wrapper persisting changes to the remote gateway.
package store

import (
	"tradelink/internal/domain/entity"

	"github.com/google/uuid"
)

// State is the authoritative in-memory state tree. Values are treated as
// immutable: the reducer copies any collection it changes, so a State handed
// to an observer is never mutated afterwards.
type State struct {
	Users          []entity.User
	PendingUsers   []entity.PendingUser
	Products       []entity.Product
	Orders         []entity.Order
	Promotions     []entity.Promotion
	SupportTickets []entity.SupportTicket
	ReturnRequests []entity.ReturnRequest
	Notifications  []entity.Notification
	Settings       entity.PlatformSettings
}

// NewState returns an empty state tree with default platform settings.
func NewState() State {
	return State{Settings: entity.DefaultPlatformSettings()}
}

// UserByID looks up a user by id.
func (s State) UserByID(id uuid.UUID) (entity.User, bool) {
	for _, u := range s.Users {
		if u.ID == id {
			return u, true
		}
	}

	return entity.User{}, false
}

// OrderByID looks up an order by id.
func (s State) OrderByID(id uuid.UUID) (entity.Order, bool) {
	for _, o := range s.Orders {
		if o.ID == id {
			return o, true
		}
	}

	return entity.Order{}, false
}

// ProductByID looks up a product by id.
func (s State) ProductByID(id uuid.UUID) (entity.Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}

	return entity.Product{}, false
}

// VisibleNotifications returns the notifications the viewer may see, sorted
// by priority rank descending then recency.
func (s State) VisibleNotifications(userID uuid.UUID, role entity.Role) []entity.Notification {
	visible := make([]entity.Notification, 0, len(s.Notifications))
	for _, n := range s.Notifications {
		if n.VisibleTo(userID, role) {
			visible = append(visible, n)
		}
	}
	entity.SortNotifications(visible)

	return visible
}

// UnreadNotificationCount counts the viewer's unread notifications using the
// same visibility predicate as listing and mark-all-read.
func (s State) UnreadNotificationCount(userID uuid.UUID, role entity.Role) int {
	count := 0
	for _, n := range s.Notifications {
		if !n.Read && n.VisibleTo(userID, role) {
			count++
		}
	}

	return count
}

// Stats derives the system statistics read-model from the state tree.
func (s State) Stats() entity.SystemStats {
	stats := entity.SystemStats{
		TotalUsers:   len(s.Users),
		PendingUsers: len(s.PendingUsers),
		TotalOrders:  len(s.Orders),
	}

	for _, u := range s.Users {
		switch u.Role {
		case entity.RoleWholesaler:
			stats.TotalWholesalers++
		case entity.RoleRetailer:
			stats.TotalRetailers++
		}
	}

	stats.TotalProducts = len(s.Products)

	for _, o := range s.Orders {
		if o.Status == entity.OrderStatusCompleted {
			stats.CompletedOrders++
		}
		if o.PaymentStatus == entity.PaymentStatusPaid {
			stats.TotalRevenue += o.Total
		}
	}

	for _, t := range s.SupportTickets {
		if t.Status == entity.TicketStatusOpen || t.Status == entity.TicketStatusInProgress {
			stats.OpenTickets++
		}
	}

	for _, p := range s.Promotions {
		if p.Status == entity.PromotionStatusPending {
			stats.PendingPromotions++
		}
	}

	for _, r := range s.ReturnRequests {
		if r.Status == entity.ReturnStatusPending || r.Status == entity.ReturnStatusProcessing {
			stats.OpenReturnRequests++
		}
	}

	return stats
}

// appendCopy returns a fresh slice with v appended, leaving xs untouched.
func appendCopy[T any](xs []T, v T) []T {
	out := make([]T, len(xs), len(xs)+1)
	copy(out, xs)

	return append(out, v)
}

// replaceWhere returns a fresh slice with the first element matching the
// predicate replaced by v. The second result reports whether a match existed.
func replaceWhere[T any](xs []T, match func(T) bool, v T) ([]T, bool) {
	for i, x := range xs {
		if match(x) {
			out := make([]T, len(xs))
			copy(out, xs)
			out[i] = v

			return out, true
		}
	}

	return xs, false
}

// removeWhere returns a fresh slice with the first element matching the
// predicate removed. The second result reports whether a match existed.
func removeWhere[T any](xs []T, match func(T) bool) ([]T, bool) {
	for i, x := range xs {
		if match(x) {
			out := make([]T, 0, len(xs)-1)
			out = append(out, xs[:i]...)
			out = append(out, xs[i+1:]...)

			return out, true
		}
	}

	return xs, false
}

// upsertWhere replaces the first element matching the predicate or appends v
// when no match exists. Applying the same upsert twice leaves one element.
func upsertWhere[T any](xs []T, match func(T) bool, v T) []T {
	if out, ok := replaceWhere(xs, match, v); ok {
		return out
	}

	return appendCopy(xs, v)
}
