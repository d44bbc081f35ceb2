// Package model holds the SurrealDB row representations of the domain
// entities. Record IDs are table-scoped strings carrying the entity UUID;
// timestamps must use models.CustomDateTime for CBOR round-tripping.
package model

import (
	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"tradelink/internal/domain/entity"
)

// UserRow mirrors the 'users' table.
type UserRow struct {
	ID           *models.RecordID      `json:"id,omitempty"`
	Name         string                `json:"name"`
	Email        string                `json:"email"`
	Role         string                `json:"role"`
	BusinessName string                `json:"business_name"`
	Phone        string                `json:"phone"`
	Address      string                `json:"address"`
	Verified     bool                  `json:"verified"`
	Status       string                `json:"status"`
	CreatedAt    models.CustomDateTime `json:"created_at"`
}

// ToEntity maps the row back to a pure domain entity.
func (r UserRow) ToEntity() entity.User {
	return entity.User{
		ID:           RowUUID(r.ID),
		Name:         r.Name,
		Email:        r.Email,
		Role:         entity.Role(r.Role),
		BusinessName: r.BusinessName,
		Phone:        r.Phone,
		Address:      r.Address,
		Verified:     r.Verified,
		Status:       entity.UserStatus(r.Status),
		CreatedAt:    r.CreatedAt.Time,
	}
}

// FromUser maps a domain entity onto its row representation.
func FromUser(u entity.User) UserRow {
	return UserRow{
		ID:           RecordID("users", u.ID),
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role.String(),
		BusinessName: u.BusinessName,
		Phone:        u.Phone,
		Address:      u.Address,
		Verified:     u.Verified,
		Status:       string(u.Status),
		CreatedAt:    models.CustomDateTime{Time: u.CreatedAt},
	}
}

// PendingUserRow mirrors the 'pending_users' table.
type PendingUserRow struct {
	ID                 *models.RecordID      `json:"id,omitempty"`
	Name               string                `json:"name"`
	Email              string                `json:"email"`
	Role               string                `json:"role"`
	BusinessName       string                `json:"business_name"`
	Phone              string                `json:"phone"`
	Address            string                `json:"address"`
	RegistrationReason string                `json:"registration_reason"`
	Documents          []string              `json:"documents"`
	SubmittedAt        models.CustomDateTime `json:"submitted_at"`
}

// ToEntity maps the row back to a pure domain entity.
func (r PendingUserRow) ToEntity() entity.PendingUser {
	return entity.PendingUser{
		ID:                 RowUUID(r.ID),
		Name:               r.Name,
		Email:              r.Email,
		Role:               entity.Role(r.Role),
		BusinessName:       r.BusinessName,
		Phone:              r.Phone,
		Address:            r.Address,
		RegistrationReason: r.RegistrationReason,
		Documents:          r.Documents,
		SubmittedAt:        r.SubmittedAt.Time,
	}
}

// FromPendingUser maps a domain entity onto its row representation.
func FromPendingUser(p entity.PendingUser) PendingUserRow {
	return PendingUserRow{
		ID:                 RecordID("pending_users", p.ID),
		Name:               p.Name,
		Email:              p.Email,
		Role:               p.Role.String(),
		BusinessName:       p.BusinessName,
		Phone:              p.Phone,
		Address:            p.Address,
		RegistrationReason: p.RegistrationReason,
		Documents:          p.Documents,
		SubmittedAt:        models.CustomDateTime{Time: p.SubmittedAt},
	}
}

// RecordID builds the SurrealDB record ID for an entity UUID.
func RecordID(table string, id uuid.UUID) *models.RecordID {
	rid := models.NewRecordID(table, id.String())

	return &rid
}

// RowUUID extracts the entity UUID from a record ID. Rows created outside
// this codebase may carry non-UUID IDs; those map to the zero UUID.
func RowUUID(rid *models.RecordID) uuid.UUID {
	if rid == nil {
		return uuid.Nil
	}

	s, ok := rid.ID.(string)
	if !ok {
		return uuid.Nil
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}

	return id
}
