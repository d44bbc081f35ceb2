package model

import (
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"tradelink/internal/domain/entity"
)

// SupportTicketRow mirrors the 'support_tickets' table.
type SupportTicketRow struct {
	ID          *models.RecordID      `json:"id,omitempty"`
	User        *models.RecordID      `json:"user"`
	UserName    string                `json:"user_name"`
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Status      string                `json:"status"`
	Priority    string                `json:"priority"`
	AssignedTo  *models.RecordID      `json:"assigned_to,omitempty"`
	CreatedAt   models.CustomDateTime `json:"created_at"`
	UpdatedAt   models.CustomDateTime `json:"updated_at"`
}

// ToEntity maps the row back to a pure domain entity.
func (r SupportTicketRow) ToEntity() entity.SupportTicket {
	t := entity.SupportTicket{
		ID:          RowUUID(r.ID),
		UserID:      RowUUID(r.User),
		UserName:    r.UserName,
		Subject:     r.Subject,
		Description: r.Description,
		Status:      entity.TicketStatus(r.Status),
		Priority:    entity.Priority(r.Priority),
		CreatedAt:   r.CreatedAt.Time,
		UpdatedAt:   r.UpdatedAt.Time,
	}
	if r.AssignedTo != nil {
		id := RowUUID(r.AssignedTo)
		t.AssignedTo = &id
	}

	return t
}

// FromSupportTicket maps a domain entity onto its row representation.
func FromSupportTicket(t entity.SupportTicket) SupportTicketRow {
	row := SupportTicketRow{
		ID:          RecordID("support_tickets", t.ID),
		User:        RecordID("users", t.UserID),
		UserName:    t.UserName,
		Subject:     t.Subject,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		CreatedAt:   models.CustomDateTime{Time: t.CreatedAt},
		UpdatedAt:   models.CustomDateTime{Time: t.UpdatedAt},
	}
	if t.AssignedTo != nil {
		row.AssignedTo = RecordID("users", *t.AssignedTo)
	}

	return row
}
