package entity

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the fulfillment state of an order.
// Progression is linear: pending -> accepted -> ready -> completed, with
// cancellation possible from pending or accepted.
type OrderStatus string

const (
	// OrderStatusPending indicates the order awaits wholesaler acceptance.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusAccepted indicates the wholesaler accepted the order.
	OrderStatusAccepted OrderStatus = "accepted"
	// OrderStatusReady indicates the order is ready for pickup or delivery.
	OrderStatusReady OrderStatus = "ready"
	// OrderStatusCompleted indicates the order was fulfilled.
	OrderStatusCompleted OrderStatus = "completed"
	// OrderStatusCancelled indicates the order was cancelled before fulfillment.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the OrderStatus is a valid value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusReady,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the status may move to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusAccepted || next == OrderStatusCancelled
	case OrderStatusAccepted:
		return next == OrderStatusReady || next == OrderStatusCancelled
	case OrderStatusReady:
		return next == OrderStatusCompleted
	default:
		return false
	}
}

// PaymentStatus represents the payment state of an order.
type PaymentStatus string

const (
	// PaymentStatusPending indicates payment has not completed yet.
	PaymentStatusPending PaymentStatus = "pending"
	// PaymentStatusPaid indicates payment succeeded.
	PaymentStatusPaid PaymentStatus = "paid"
	// PaymentStatusFailed indicates payment failed or was cancelled.
	PaymentStatusFailed PaymentStatus = "failed"
)

// IsValid checks if the PaymentStatus is a valid value.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return true
	default:
		return false
	}
}

// OrderItem is a line of an order. Name and price are snapshots taken at
// order time; later product edits must not change them.
type OrderItem struct {
	ProductID   uuid.UUID `json:"product_id"`   // The GUID of the ordered product.
	ProductName string    `json:"product_name"` // Product name snapshot at order time.
	Quantity    int       `json:"quantity"`     // Units ordered.
	Price       float64   `json:"price"`        // Unit price snapshot at order time.
	Total       float64   `json:"total"`        // Line total (Price * Quantity).
}

// Order is a purchase placed by a retailer with exactly one wholesaler.
// Multi-wholesaler carts are split into one order per wholesaler at checkout.
type Order struct {
	ID            uuid.UUID     `json:"id"`             // The GUID of the order.
	RetailerID    uuid.UUID     `json:"retailer_id"`    // The user ID of the purchasing retailer.
	WholesalerID  uuid.UUID     `json:"wholesaler_id"`  // The user ID of the selling wholesaler.
	Items         []OrderItem   `json:"items"`          // Ordered sequence of line items.
	Total         float64       `json:"total"`          // Order total across all items.
	Status        OrderStatus   `json:"status"`         // Fulfillment state.
	PaymentStatus PaymentStatus `json:"payment_status"` // Payment state.
	PaymentMethod string        `json:"payment_method"` // Payment method label chosen at checkout.
	Notes         string        `json:"notes"`          // Optional free-form notes from the retailer.
	PickupTime    string        `json:"pickup_time"`    // Optional requested pickup slot.
	CreatedAt     time.Time     `json:"created_at"`     // Timestamp of when the order was placed.
	UpdatedAt     time.Time     `json:"updated_at"`     // Timestamp of the last modification.
}
