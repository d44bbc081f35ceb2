package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core account entity shared by every role on the platform.
// Users are never hard-deleted; suspension is expressed through Status.
type User struct {
	ID           uuid.UUID  `json:"id"`            // The Global Unique Identifier (GUID) for the user.
	Name         string     `json:"name"`          // The user's display name or real name.
	Email        string     `json:"email"`         // The user's primary contact email, used as a login identifier.
	Role         Role       `json:"role"`          // The role this account acts as (wholesaler, retailer, admin, support).
	BusinessName string     `json:"business_name"` // The registered business name for wholesalers and retailers.
	Phone        string     `json:"phone"`         // Contact phone number.
	Address      string     `json:"address"`       // Business address.
	Verified     bool       `json:"verified"`      // Whether an admin has verified the business documents.
	Status       UserStatus `json:"status"`        // The lifecycle state of the account.
	CreatedAt    time.Time  `json:"created_at"`    // Timestamp of when this account was created.
}

// PendingUser is a registration awaiting admin review. Approval materializes
// a new User with a fresh ID; a PendingUser ID is never reused as a User ID.
type PendingUser struct {
	ID                 uuid.UUID `json:"id"`                  // The GUID of the pending registration.
	Name               string    `json:"name"`                // The applicant's display name.
	Email              string    `json:"email"`               // The applicant's email address.
	Role               Role      `json:"role"`                // The role the applicant registered for.
	BusinessName       string    `json:"business_name"`       // The applicant's business name.
	Phone              string    `json:"phone"`               // Contact phone number.
	Address            string    `json:"address"`             // Business address.
	RegistrationReason string    `json:"registration_reason"` // Free-form reason supplied on registration.
	Documents          []string  `json:"documents"`           // References to uploaded verification documents.
	SubmittedAt        time.Time `json:"submitted_at"`        // Timestamp of when the registration was submitted.
}
