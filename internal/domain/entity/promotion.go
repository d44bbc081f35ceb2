package entity

import (
	"time"

	"github.com/google/uuid"
)

// PromotionStatus represents the admin moderation state of a promotion.
type PromotionStatus string

const (
	// PromotionStatusPending indicates the promotion awaits admin review.
	PromotionStatusPending PromotionStatus = "pending"
	// PromotionStatusApproved indicates an admin approved the promotion.
	PromotionStatusApproved PromotionStatus = "approved"
	// PromotionStatusRejected indicates an admin rejected the promotion.
	PromotionStatusRejected PromotionStatus = "rejected"
)

// IsValid checks if the PromotionStatus is a valid value.
func (s PromotionStatus) IsValid() bool {
	switch s {
	case PromotionStatusPending, PromotionStatusApproved, PromotionStatusRejected:
		return true
	default:
		return false
	}
}

// Promotion is a wholesaler discount campaign, moderated by admins.
// Invariant: Active may only be true while Status is approved.
type Promotion struct {
	ID              uuid.UUID       `json:"id"`               // The GUID of the promotion.
	WholesalerID    uuid.UUID       `json:"wholesaler_id"`    // The user ID of the submitting wholesaler.
	Title           string          `json:"title"`            // Campaign title shown to retailers.
	Description     string          `json:"description"`      // Campaign description.
	Discount        int             `json:"discount"`         // Discount percentage, 1-100.
	ValidFrom       time.Time       `json:"valid_from"`       // Start of the validity window.
	ValidTo         time.Time       `json:"valid_to"`         // End of the validity window.
	ProductIDs      []uuid.UUID     `json:"product_ids"`      // Products covered, all owned by the same wholesaler.
	Active          bool            `json:"active"`           // Whether the promotion is currently live.
	Status          PromotionStatus `json:"status"`           // Admin moderation state.
	SubmittedAt     time.Time       `json:"submitted_at"`     // Timestamp of submission for review.
	ReviewedAt      *time.Time      `json:"reviewed_at"`      // Timestamp of the admin decision, nil while pending.
	ReviewedBy      *uuid.UUID      `json:"reviewed_by"`      // The admin who made the decision, nil while pending.
	RejectionReason string          `json:"rejection_reason"` // Reason supplied on rejection.
}
