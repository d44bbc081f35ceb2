package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReturnStatus represents the processing state of a return request.
type ReturnStatus string

const (
	// ReturnStatusPending indicates the request awaits review.
	ReturnStatusPending ReturnStatus = "pending"
	// ReturnStatusApproved indicates the request was approved for refund.
	ReturnStatusApproved ReturnStatus = "approved"
	// ReturnStatusRejected indicates the request was rejected.
	ReturnStatusRejected ReturnStatus = "rejected"
	// ReturnStatusProcessing indicates an approved refund is being processed.
	ReturnStatusProcessing ReturnStatus = "processing"
	// ReturnStatusCompleted indicates the refund was completed.
	ReturnStatusCompleted ReturnStatus = "completed"
)

// IsValid checks if the ReturnStatus is a valid value.
func (s ReturnStatus) IsValid() bool {
	switch s {
	case ReturnStatusPending, ReturnStatusApproved, ReturnStatusRejected,
		ReturnStatusProcessing, ReturnStatusCompleted:
		return true
	default:
		return false
	}
}

// ReturnItem is a line of a return request, referencing an order line.
type ReturnItem struct {
	ProductID   uuid.UUID `json:"product_id"`   // The GUID of the returned product.
	ProductName string    `json:"product_name"` // Product name snapshot from the order.
	Quantity    int       `json:"quantity"`     // Units returned.
	Price       float64   `json:"price"`        // Unit price snapshot from the order.
	Reason      string    `json:"reason"`       // Per-item return reason.
}

// ReturnRequest is a retailer's request to return part or all of an order.
type ReturnRequest struct {
	ID              uuid.UUID    `json:"id"`               // The GUID of the return request.
	OrderID         uuid.UUID    `json:"order_id"`         // The order the return refers to.
	RetailerID      uuid.UUID    `json:"retailer_id"`      // The retailer requesting the return.
	WholesalerID    uuid.UUID    `json:"wholesaler_id"`    // The wholesaler the order was placed with.
	Reason          string       `json:"reason"`           // Overall return reason category.
	Description     string       `json:"description"`      // Free-form description of the problem.
	Status          ReturnStatus `json:"status"`           // Processing state.
	Priority        Priority     `json:"priority"`         // Urgency assigned by the retailer.
	RequestedAmount float64      `json:"requested_amount"` // Refund amount requested.
	ApprovedAmount  *float64     `json:"approved_amount"`  // Refund amount granted, nil until approved.
	Items           []ReturnItem `json:"items"`            // Returned line items.
	Images          []string     `json:"images"`           // References to uploaded evidence images.
	RejectionReason string       `json:"rejection_reason"` // Reason supplied on rejection.
	RefundMethod    string       `json:"refund_method"`    // How the refund is paid out.
	TrackingNumber  string       `json:"tracking_number"`  // Shipping tracking number for the returned goods.
	CreatedAt       time.Time    `json:"created_at"`       // Timestamp of when the request was filed.
	UpdatedAt       time.Time    `json:"updated_at"`       // Timestamp of the last modification.
	ProcessedAt     *time.Time   `json:"processed_at"`     // Timestamp of the final decision, nil while open.
}
