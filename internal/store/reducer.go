package store

import (
	"tradelink/internal/domain/entity"

	"github.com/google/uuid"
)

// Outcome reports the side channel of one reduction: the notifications
// synthesized by the transition and a diagnostic for actions that referenced
// an unknown id. The reducer itself has no failure mode; a not-found action
// is a deterministic no-op.
type Outcome struct {
	NotFound      bool
	Notifications []entity.Notification
}

// Reduce is the pure state transition function. Given the same state and
// action it always returns an equivalent new state; it performs no I/O and
// never reads the clock (timestamps come from the action's Meta).
//
//nolint:gocyclo // one arm per action variant, exhaustive by design
func Reduce(s State, action Action) (State, Outcome) {
	switch a := action.(type) {
	// --- user / registration ---
	case AddPendingUser:
		s.PendingUsers = appendCopy(s.PendingUsers, a.Pending)

		return withNotifications(s, derivePendingUserSubmitted(a))

	case ApproveUser:
		pending, ok := findPendingUser(s.PendingUsers, a.PendingID)
		if !ok {
			return s, Outcome{NotFound: true}
		}
		// Materializing the user and dropping the pending record happen in
		// the same transition; no reachable state has only one of the two.
		user := entity.User{
			ID:           a.NewUserID,
			Name:         pending.Name,
			Email:        pending.Email,
			Role:         pending.Role,
			BusinessName: pending.BusinessName,
			Phone:        pending.Phone,
			Address:      pending.Address,
			Verified:     true,
			Status:       entity.UserStatusActive,
			CreatedAt:    a.At,
		}
		s.PendingUsers, _ = removeWhere(s.PendingUsers, func(p entity.PendingUser) bool { return p.ID == a.PendingID })
		s.Users = appendCopy(s.Users, user)

		return withNotifications(s, deriveUserApproved(a, user))

	case RejectUser:
		pending, ok := findPendingUser(s.PendingUsers, a.PendingID)
		if !ok {
			return s, Outcome{NotFound: true}
		}
		s.PendingUsers, _ = removeWhere(s.PendingUsers, func(p entity.PendingUser) bool { return p.ID == a.PendingID })

		return withNotifications(s, deriveUserRejected(a, pending))

	case UpdateUser:
		users, ok := replaceWhere(s.Users, func(u entity.User) bool { return u.ID == a.User.ID }, a.User)
		if !ok {
			return s, Outcome{NotFound: true}
		}
		s.Users = users

		return s, Outcome{}

	case SuspendUser:
		user, ok := s.UserByID(a.UserID)
		if !ok {
			return s, Outcome{NotFound: true}
		}
		user.Status = entity.UserStatusSuspended
		s.Users, _ = replaceWhere(s.Users, func(u entity.User) bool { return u.ID == a.UserID }, user)

		return s, Outcome{}

	case BulkVerifyUsers:
		users := make([]entity.User, len(s.Users))
		copy(users, s.Users)
		for i, u := range users {
			if containsID(a.UserIDs, u.ID) {
				users[i].Verified = true
			}
		}
		s.Users = users

		return s, Outcome{}

	// --- products ---
	case AddProduct:
		s.Products = appendCopy(s.Products, a.Product)

		return s, Outcome{}

	case UpdateProduct:
		products, ok := replaceWhere(s.Products, func(p entity.Product) bool { return p.ID == a.Product.ID }, a.Product)
		if !ok {
			return s, Outcome{NotFound: true}
		}
		s.Products = products

		return s, Outcome{}

	case DeleteProduct:
		products, ok := removeWhere(s.Products, func(p entity.Product) bool { return p.ID == a.ProductID })
		if !ok {
			return s, Outcome{NotFound: true}
		}
		s.Products = products

		return s, Outcome{}

	// --- orders ---
	case AddOrder:
		s.Orders = appendCopy(s.Orders, a.Order)

		return withNotifications(s, deriveOrderPlaced(a))

	case UpdateOrderStatus:
		order, ok := s.OrderByID(a.OrderID)
		if !ok {
			return s, Outcome{NotFound: true}
		}
		order.Status = a.Status
		order.UpdatedAt = a.At
		s.Orders, _ = replaceWhere(s.Orders, func(o entity.Order) bool { return o.ID == a.OrderID }, order)

		return withNotifications(s, deriveOrderStatusChanged(a, order))

	case UpdateOrderPayment:
		order, ok := s.OrderByID(a.OrderID)
		if !ok {
			return s, Outcome{NotFound: true}
		}
		order.PaymentStatus = a.PaymentStatus
		order.UpdatedAt = a.At
		s.Orders, _ = replaceWhere(s.Orders, func(o entity.Order) bool { return o.ID == a.OrderID }, order)

		return s, Outcome{}

	// --- promotions ---
	case AddPromotion:
		promotion := a.Promotion
		promotion.Status = entity.PromotionStatusPending
		promotion.Active = false
		promotion.SubmittedAt = a.At
		if s.Settings.AutoApprovePromotions {
			promotion.Status = entity.PromotionStatusApproved
			promotion.Active = true
			reviewedAt := a.At
			promotion.ReviewedAt = &reviewedAt
		}
		s.Promotions = appendCopy(s.Promotions, promotion)

		return withNotifications(s, derivePromotionSubmitted(a, promotion))

	case ApprovePromotion:
		promotion, ok := findPromotion(s.Promotions, a.PromotionID)
		if !ok {
			return s, Outcome{NotFound: true}
		}
		promotion.Status = entity.PromotionStatusApproved
		promotion.Active = true
		reviewedAt := a.At
		reviewedBy := a.ReviewedBy
		promotion.ReviewedAt = &reviewedAt
		promotion.ReviewedBy = &reviewedBy
		promotion.RejectionReason = ""
		s.Promotions, _ = replaceWhere(s.Promotions, func(p entity.Promotion) bool { return p.ID == a.PromotionID }, promotion)

		return withNotifications(s, derivePromotionApproved(a, promotion))

	case RejectPromotion:
		promotion, ok := findPromotion(s.Promotions, a.PromotionID)
		if !ok {
			return s, Outcome{NotFound: true}
		}
		promotion.Status = entity.PromotionStatusRejected
		promotion.Active = false
		reviewedAt := a.At
		reviewedBy := a.ReviewedBy
		promotion.ReviewedAt = &reviewedAt
		promotion.ReviewedBy = &reviewedBy
		promotion.RejectionReason = a.Reason
		s.Promotions, _ = replaceWhere(s.Promotions, func(p entity.Promotion) bool { return p.ID == a.PromotionID }, promotion)

		return withNotifications(s, derivePromotionRejected(a, promotion))

	case UpdatePromotion:
		promotion := clampPromotion(a.Promotion)
		promotions, ok := replaceWhere(s.Promotions, func(p entity.Promotion) bool { return p.ID == promotion.ID }, promotion)
		if !ok {
			return s, Outcome{NotFound: true}
		}
		s.Promotions = promotions

		return s, Outcome{}

	case DeletePromotion:
		promotions, ok := removeWhere(s.Promotions, func(p entity.Promotion) bool { return p.ID == a.PromotionID })
		if !ok {
			return s, Outcome{NotFound: true}
		}
		s.Promotions = promotions

		return s, Outcome{}

	// --- support tickets ---
	case AddSupportTicket:
		s.SupportTickets = appendCopy(s.SupportTickets, a.Ticket)

		return withNotifications(s, deriveTicketFiled(a))

	case UpdateSupportTicket:
		tickets, ok := replaceWhere(s.SupportTickets, func(t entity.SupportTicket) bool { return t.ID == a.Ticket.ID }, a.Ticket)
		if !ok {
			return s, Outcome{NotFound: true}
		}
		s.SupportTickets = tickets

		return withNotifications(s, deriveTicketUpdated(a))

	// --- return requests ---
	case AddReturnRequest:
		s.ReturnRequests = appendCopy(s.ReturnRequests, a.Request)

		return withNotifications(s, deriveReturnFiled(a))

	case ApproveReturnRequest:
		request, ok := findReturnRequest(s.ReturnRequests, a.RequestID)
		if !ok {
			return s, Outcome{NotFound: true}
		}
		request.Status = entity.ReturnStatusApproved
		amount := a.ApprovedAmount
		request.ApprovedAmount = &amount
		request.RefundMethod = a.RefundMethod
		request.RejectionReason = ""
		processedAt := a.At
		request.ProcessedAt = &processedAt
		request.UpdatedAt = a.At
		s.ReturnRequests, _ = replaceWhere(s.ReturnRequests, func(r entity.ReturnRequest) bool { return r.ID == a.RequestID }, request)

		return withNotifications(s, deriveReturnApproved(a, request))

	case RejectReturnRequest:
		request, ok := findReturnRequest(s.ReturnRequests, a.RequestID)
		if !ok {
			return s, Outcome{NotFound: true}
		}
		request.Status = entity.ReturnStatusRejected
		request.RejectionReason = a.Reason
		processedAt := a.At
		request.ProcessedAt = &processedAt
		request.UpdatedAt = a.At
		s.ReturnRequests, _ = replaceWhere(s.ReturnRequests, func(r entity.ReturnRequest) bool { return r.ID == a.RequestID }, request)

		return withNotifications(s, deriveReturnRejected(a, request))

	case UpdateReturnRequest:
		requests, ok := replaceWhere(s.ReturnRequests, func(r entity.ReturnRequest) bool { return r.ID == a.Request.ID }, a.Request)
		if !ok {
			return s, Outcome{NotFound: true}
		}
		s.ReturnRequests = requests

		return s, Outcome{}

	// --- notifications ---
	case BroadcastAnnouncement:
		return withNotifications(s, deriveBroadcast(a, s.Users))

	case MarkNotificationRead:
		n, ok := findNotification(s.Notifications, a.NotificationID)
		if !ok {
			return s, Outcome{NotFound: true}
		}
		n.Read = true
		s.Notifications, _ = replaceWhere(s.Notifications, func(x entity.Notification) bool { return x.ID == a.NotificationID }, n)

		return s, Outcome{}

	case MarkAllNotificationsRead:
		notifications := make([]entity.Notification, len(s.Notifications))
		copy(notifications, s.Notifications)
		for i, n := range notifications {
			if !n.Read && n.VisibleTo(a.UserID, a.Role) {
				notifications[i].Read = true
			}
		}
		s.Notifications = notifications

		return s, Outcome{}

	case DeleteNotification:
		notifications, ok := removeWhere(s.Notifications, func(n entity.Notification) bool { return n.ID == a.NotificationID })
		if !ok {
			return s, Outcome{NotFound: true}
		}
		s.Notifications = notifications

		return s, Outcome{}

	// --- platform settings ---
	case UpdatePlatformSettings:
		s.Settings = s.Settings.Merge(a.Patch)

		return s, Outcome{}

	case ResetPlatformSettings:
		s.Settings = entity.DefaultPlatformSettings()

		return s, Outcome{}

	// --- synchronization ---
	case SyncUpsertUser:
		s.Users = upsertWhere(s.Users, func(u entity.User) bool { return u.ID == a.User.ID }, a.User)

		return s, Outcome{}

	case SyncRemoveUser:
		s.Users, _ = removeWhere(s.Users, func(u entity.User) bool { return u.ID == a.UserID })

		return s, Outcome{}

	case SyncUpsertPendingUser:
		s.PendingUsers = upsertWhere(s.PendingUsers, func(p entity.PendingUser) bool { return p.ID == a.Pending.ID }, a.Pending)

		return s, Outcome{}

	case SyncRemovePendingUser:
		s.PendingUsers, _ = removeWhere(s.PendingUsers, func(p entity.PendingUser) bool { return p.ID == a.PendingID })

		return s, Outcome{}

	case SyncUpsertProduct:
		s.Products = upsertWhere(s.Products, func(p entity.Product) bool { return p.ID == a.Product.ID }, a.Product)

		return s, Outcome{}

	case SyncRemoveProduct:
		s.Products, _ = removeWhere(s.Products, func(p entity.Product) bool { return p.ID == a.ProductID })

		return s, Outcome{}

	case SyncUpsertPromotion:
		promotion := clampPromotion(a.Promotion)
		s.Promotions = upsertWhere(s.Promotions, func(p entity.Promotion) bool { return p.ID == promotion.ID }, promotion)

		return s, Outcome{}

	case SyncRemovePromotion:
		s.Promotions, _ = removeWhere(s.Promotions, func(p entity.Promotion) bool { return p.ID == a.PromotionID })

		return s, Outcome{}

	case SyncUpsertSupportTicket:
		s.SupportTickets = upsertWhere(s.SupportTickets, func(t entity.SupportTicket) bool { return t.ID == a.Ticket.ID }, a.Ticket)

		return s, Outcome{}

	case SyncRemoveSupportTicket:
		s.SupportTickets, _ = removeWhere(s.SupportTickets, func(t entity.SupportTicket) bool { return t.ID == a.TicketID })

		return s, Outcome{}

	case SyncReplaceOrders:
		orders := make([]entity.Order, len(a.Orders))
		copy(orders, a.Orders)
		s.Orders = orders

		return s, Outcome{}

	case SyncReplaceReturnRequests:
		requests := make([]entity.ReturnRequest, len(a.Requests))
		copy(requests, a.Requests)
		s.ReturnRequests = requests

		return s, Outcome{}

	case SyncSettings:
		s.Settings = a.Settings

		return s, Outcome{}

	case SyncSnapshot:
		s.Users = append([]entity.User(nil), a.Users...)
		s.PendingUsers = append([]entity.PendingUser(nil), a.PendingUsers...)
		s.Products = append([]entity.Product(nil), a.Products...)
		s.Orders = append([]entity.Order(nil), a.Orders...)
		s.Promotions = append([]entity.Promotion(nil), a.Promotions...)
		s.SupportTickets = append([]entity.SupportTicket(nil), a.SupportTickets...)
		s.ReturnRequests = append([]entity.ReturnRequest(nil), a.ReturnRequests...)
		if a.Settings != nil {
			s.Settings = *a.Settings
		}

		return s, Outcome{}

	case SyncReset:
		s.Users = nil
		s.PendingUsers = nil
		s.Products = nil
		s.Orders = nil
		s.Promotions = nil
		s.SupportTickets = nil
		s.ReturnRequests = nil

		return s, Outcome{}
	}

	// Unreachable for actions built from this package; a variant added
	// without a reducer arm is a programming error.
	panic("store: unhandled action variant")
}

// withNotifications appends the synthesized notifications and records them in
// the outcome.
func withNotifications(s State, ns []entity.Notification) (State, Outcome) {
	if len(ns) == 0 {
		return s, Outcome{}
	}
	notifications := make([]entity.Notification, len(s.Notifications), len(s.Notifications)+len(ns))
	copy(notifications, s.Notifications)
	s.Notifications = append(notifications, ns...)

	return s, Outcome{Notifications: ns}
}

// clampPromotion enforces the invariant that a promotion may only be active
// while approved, including on direct updates.
func clampPromotion(p entity.Promotion) entity.Promotion {
	if p.Status != entity.PromotionStatusApproved {
		p.Active = false
	}

	return p
}

func findPendingUser(xs []entity.PendingUser, id uuid.UUID) (entity.PendingUser, bool) {
	for _, x := range xs {
		if x.ID == id {
			return x, true
		}
	}

	return entity.PendingUser{}, false
}

func findPromotion(xs []entity.Promotion, id uuid.UUID) (entity.Promotion, bool) {
	for _, x := range xs {
		if x.ID == id {
			return x, true
		}
	}

	return entity.Promotion{}, false
}

func findReturnRequest(xs []entity.ReturnRequest, id uuid.UUID) (entity.ReturnRequest, bool) {
	for _, x := range xs {
		if x.ID == id {
			return x, true
		}
	}

	return entity.ReturnRequest{}, false
}

func findNotification(xs []entity.Notification, id uuid.UUID) (entity.Notification, bool) {
	for _, x := range xs {
		if x.ID == id {
			return x, true
		}
	}

	return entity.Notification{}, false
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}

	return false
}
