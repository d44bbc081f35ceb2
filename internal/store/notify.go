package store

import (
	"fmt"

	"tradelink/internal/domain/entity"

	"github.com/google/uuid"
)

// notificationNamespace seeds the deterministic notification IDs. An ID is
// the v5 UUID of "<event id>:<recipient>", so replaying the same action for
// the same recipient always yields the same ID while a broadcast to N users
// yields N distinct IDs within the same millisecond.
var notificationNamespace = uuid.MustParse("8a9e3bd4-52f1-4c6e-9d35-7b20c1a4e8f0")

func notificationID(m Meta, recipient entity.RecipientToken) uuid.UUID {
	return uuid.NewSHA1(notificationNamespace, []byte(m.EventID.String()+":"+string(recipient)))
}

func newNotification(m Meta, recipient entity.RecipientToken, typ entity.NotificationType,
	priority entity.Priority, title, message string, data map[string]any) entity.Notification {
	return entity.Notification{
		ID:        notificationID(m, recipient),
		UserID:    recipient,
		Type:      typ,
		Title:     title,
		Message:   message,
		Data:      data,
		Read:      false,
		Priority:  priority,
		CreatedAt: m.At,
	}
}

// escalate returns urgent when the triggering record is urgent, otherwise
// the given base priority.
func escalate(p entity.Priority, base entity.Priority) entity.Priority {
	if p == entity.PriorityUrgent {
		return entity.PriorityUrgent
	}

	return base
}

func derivePendingUserSubmitted(a AddPendingUser) []entity.Notification {
	return []entity.Notification{newNotification(a.Meta, entity.ChannelAdmin,
		entity.NotificationTypeUser, entity.PriorityHigh,
		"New registration request",
		fmt.Sprintf("%s (%s) applied to join as %s", a.Pending.Name, a.Pending.BusinessName, a.Pending.Role),
		map[string]any{"pending_user_id": a.Pending.ID.String()},
	)}
}

func deriveUserApproved(a ApproveUser, user entity.User) []entity.Notification {
	return []entity.Notification{newNotification(a.Meta, entity.RecipientUser(user.ID),
		entity.NotificationTypeUser, entity.PriorityHigh,
		"Registration approved",
		fmt.Sprintf("Welcome %s, your %s account is now active", user.Name, user.Role),
		map[string]any{"user_id": user.ID.String()},
	)}
}

func deriveUserRejected(a RejectUser, pending entity.PendingUser) []entity.Notification {
	return []entity.Notification{newNotification(a.Meta, entity.ChannelSystem,
		entity.NotificationTypeUser, entity.PriorityMedium,
		"Registration rejected",
		fmt.Sprintf("Registration of %s was rejected: %s", pending.Email, a.Reason),
		map[string]any{"pending_user_id": pending.ID.String()},
	)}
}

func deriveOrderPlaced(a AddOrder) []entity.Notification {
	return []entity.Notification{newNotification(a.Meta, entity.RecipientUser(a.Order.WholesalerID),
		entity.NotificationTypeOrder, entity.PriorityHigh,
		"New order received",
		fmt.Sprintf("A retailer placed an order worth %.2f", a.Order.Total),
		map[string]any{"order_id": a.Order.ID.String()},
	)}
}

func deriveOrderStatusChanged(a UpdateOrderStatus, order entity.Order) []entity.Notification {
	ns := []entity.Notification{newNotification(a.Meta, entity.RecipientUser(order.RetailerID),
		entity.NotificationTypeOrder, entity.PriorityMedium,
		"Order status updated",
		fmt.Sprintf("Your order is now %s", order.Status),
		map[string]any{"order_id": order.ID.String()},
	)}
	// A cancellation also concerns the wholesaler preparing the order.
	if order.Status == entity.OrderStatusCancelled {
		ns = append(ns, newNotification(a.Meta, entity.RecipientUser(order.WholesalerID),
			entity.NotificationTypeOrder, entity.PriorityMedium,
			"Order cancelled",
			fmt.Sprintf("Order %s was cancelled", order.ID),
			map[string]any{"order_id": order.ID.String()},
		))
	}

	return ns
}

func derivePromotionSubmitted(a AddPromotion, promotion entity.Promotion) []entity.Notification {
	return []entity.Notification{newNotification(a.Meta, entity.ChannelAdmin,
		entity.NotificationTypePromotion, entity.PriorityMedium,
		"New promotion submitted",
		fmt.Sprintf("%q (%d%% off) awaits review", promotion.Title, promotion.Discount),
		map[string]any{"promotion_id": promotion.ID.String()},
	)}
}

func derivePromotionApproved(a ApprovePromotion, promotion entity.Promotion) []entity.Notification {
	return []entity.Notification{newNotification(a.Meta, entity.RecipientUser(promotion.WholesalerID),
		entity.NotificationTypePromotion, entity.PriorityHigh,
		"Promotion approved",
		fmt.Sprintf("Your promotion %q is now live", promotion.Title),
		map[string]any{"promotion_id": promotion.ID.String()},
	)}
}

func derivePromotionRejected(a RejectPromotion, promotion entity.Promotion) []entity.Notification {
	return []entity.Notification{newNotification(a.Meta, entity.RecipientUser(promotion.WholesalerID),
		entity.NotificationTypePromotion, entity.PriorityMedium,
		"Promotion rejected",
		fmt.Sprintf("Your promotion %q was rejected: %s", promotion.Title, a.Reason),
		map[string]any{"promotion_id": promotion.ID.String()},
	)}
}

func deriveTicketFiled(a AddSupportTicket) []entity.Notification {
	return []entity.Notification{newNotification(a.Meta, entity.ChannelSupport,
		entity.NotificationTypeSupport, escalate(a.Ticket.Priority, entity.PriorityHigh),
		"New support ticket",
		fmt.Sprintf("%s: %s", a.Ticket.UserName, a.Ticket.Subject),
		map[string]any{"ticket_id": a.Ticket.ID.String()},
	)}
}

func deriveTicketUpdated(a UpdateSupportTicket) []entity.Notification {
	return []entity.Notification{newNotification(a.Meta, entity.RecipientUser(a.Ticket.UserID),
		entity.NotificationTypeSupport, entity.PriorityMedium,
		"Support ticket updated",
		fmt.Sprintf("Your ticket %q is now %s", a.Ticket.Subject, a.Ticket.Status),
		map[string]any{"ticket_id": a.Ticket.ID.String()},
	)}
}

func deriveReturnFiled(a AddReturnRequest) []entity.Notification {
	return []entity.Notification{newNotification(a.Meta, entity.ChannelSupport,
		entity.NotificationTypeReturn, escalate(a.Request.Priority, entity.PriorityHigh),
		"New return request",
		fmt.Sprintf("Return of %.2f requested on order %s", a.Request.RequestedAmount, a.Request.OrderID),
		map[string]any{"return_request_id": a.Request.ID.String()},
	)}
}

func deriveReturnApproved(a ApproveReturnRequest, request entity.ReturnRequest) []entity.Notification {
	return []entity.Notification{newNotification(a.Meta, entity.RecipientUser(request.RetailerID),
		entity.NotificationTypeReturn, entity.PriorityHigh,
		"Return request approved",
		fmt.Sprintf("Your return was approved for %.2f via %s", a.ApprovedAmount, a.RefundMethod),
		map[string]any{"return_request_id": request.ID.String()},
	)}
}

func deriveReturnRejected(a RejectReturnRequest, request entity.ReturnRequest) []entity.Notification {
	return []entity.Notification{newNotification(a.Meta, entity.RecipientUser(request.RetailerID),
		entity.NotificationTypeReturn, entity.PriorityMedium,
		"Return request rejected",
		fmt.Sprintf("Your return was rejected: %s", a.Reason),
		map[string]any{"return_request_id": request.ID.String()},
	)}
}

func deriveBroadcast(a BroadcastAnnouncement, users []entity.User) []entity.Notification {
	ns := make([]entity.Notification, 0, len(users))
	for _, u := range users {
		ns = append(ns, newNotification(a.Meta, entity.RecipientUser(u.ID),
			entity.NotificationTypeSystem, entity.PriorityHigh,
			a.Title, a.Message,
			map[string]any{"sender_id": a.SenderID.String()},
		))
	}

	return ns
}
