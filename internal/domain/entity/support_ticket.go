package entity

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus represents the handling state of a support ticket.
type TicketStatus string

const (
	// TicketStatusOpen indicates the ticket awaits triage.
	TicketStatusOpen TicketStatus = "open"
	// TicketStatusInProgress indicates a support agent is working on the ticket.
	TicketStatusInProgress TicketStatus = "in_progress"
	// TicketStatusResolved indicates the ticket was answered.
	TicketStatusResolved TicketStatus = "resolved"
	// TicketStatusClosed indicates the ticket was closed.
	TicketStatusClosed TicketStatus = "closed"
)

// IsValid checks if the TicketStatus is a valid value.
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	default:
		return false
	}
}

// SupportTicket is a help request filed by any platform user.
type SupportTicket struct {
	ID          uuid.UUID    `json:"id"`          // The GUID of the ticket.
	UserID      uuid.UUID    `json:"user_id"`     // The user who filed the ticket.
	UserName    string       `json:"user_name"`   // Display name snapshot of the filer.
	Subject     string       `json:"subject"`     // Short summary of the issue.
	Description string       `json:"description"` // Full description of the issue.
	Status      TicketStatus `json:"status"`      // Handling state.
	Priority    Priority     `json:"priority"`    // Urgency assigned by the filer.
	AssignedTo  *uuid.UUID   `json:"assigned_to"` // The support agent handling the ticket, nil if unassigned.
	CreatedAt   time.Time    `json:"created_at"`  // Timestamp of when the ticket was filed.
	UpdatedAt   time.Time    `json:"updated_at"`  // Timestamp of the last modification.
}
