package usecase

import (
	"context"

	"github.com/google/uuid"

	"tradelink/internal/domain/entity"
)

// FileTicketInput defines a new support ticket.
type FileTicketInput struct {
	Subject     string
	Description string
	Priority    entity.Priority
}

// UpdateTicketInput carries the mutable fields of a ticket. Nil fields
// are left unchanged.
type UpdateTicketInput struct {
	Status     *entity.TicketStatus
	Priority   *entity.Priority
	AssignedTo *uuid.UUID
}

// SupportUsecase defines support ticket operations.
type SupportUsecase interface {
	// ListTickets returns the viewer's own tickets, or all tickets for
	// support and admin users.
	ListTickets(ctx context.Context, viewer Viewer) []entity.SupportTicket

	// FileTicket files a new ticket on behalf of the viewer.
	FileTicket(ctx context.Context, viewer Viewer, input FileTicketInput) (entity.SupportTicket, error)

	// UpdateTicket applies triage changes. Restricted to support and admin.
	UpdateTicket(ctx context.Context, viewer Viewer, ticketID uuid.UUID, input UpdateTicketInput) (entity.SupportTicket, error)
}
