package model

import (
	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"tradelink/internal/domain/entity"
)

// PromotionRow mirrors the 'promotions' table.
type PromotionRow struct {
	ID              *models.RecordID       `json:"id,omitempty"`
	Wholesaler      *models.RecordID       `json:"wholesaler"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Discount        int                    `json:"discount"`
	ValidFrom       models.CustomDateTime  `json:"valid_from"`
	ValidTo         models.CustomDateTime  `json:"valid_to"`
	Products        []*models.RecordID     `json:"products"`
	Active          bool                   `json:"active"`
	Status          string                 `json:"status"`
	SubmittedAt     models.CustomDateTime  `json:"submitted_at"`
	ReviewedAt      *models.CustomDateTime `json:"reviewed_at,omitempty"`
	ReviewedBy      *models.RecordID       `json:"reviewed_by,omitempty"`
	RejectionReason string                 `json:"rejection_reason"`
}

// ToEntity maps the row back to a pure domain entity.
func (r PromotionRow) ToEntity() entity.Promotion {
	productIDs := make([]uuid.UUID, len(r.Products))
	for i, rid := range r.Products {
		productIDs[i] = RowUUID(rid)
	}

	p := entity.Promotion{
		ID:              RowUUID(r.ID),
		WholesalerID:    RowUUID(r.Wholesaler),
		Title:           r.Title,
		Description:     r.Description,
		Discount:        r.Discount,
		ValidFrom:       r.ValidFrom.Time,
		ValidTo:         r.ValidTo.Time,
		ProductIDs:      productIDs,
		Active:          r.Active,
		Status:          entity.PromotionStatus(r.Status),
		SubmittedAt:     r.SubmittedAt.Time,
		RejectionReason: r.RejectionReason,
	}
	if r.ReviewedAt != nil {
		t := r.ReviewedAt.Time
		p.ReviewedAt = &t
	}
	if r.ReviewedBy != nil {
		id := RowUUID(r.ReviewedBy)
		p.ReviewedBy = &id
	}

	return p
}

// FromPromotion maps a domain entity onto its row representation.
func FromPromotion(p entity.Promotion) PromotionRow {
	products := make([]*models.RecordID, len(p.ProductIDs))
	for i, id := range p.ProductIDs {
		products[i] = RecordID("products", id)
	}

	row := PromotionRow{
		ID:              RecordID("promotions", p.ID),
		Wholesaler:      RecordID("users", p.WholesalerID),
		Title:           p.Title,
		Description:     p.Description,
		Discount:        p.Discount,
		ValidFrom:       models.CustomDateTime{Time: p.ValidFrom},
		ValidTo:         models.CustomDateTime{Time: p.ValidTo},
		Products:        products,
		Active:          p.Active,
		Status:          string(p.Status),
		SubmittedAt:     models.CustomDateTime{Time: p.SubmittedAt},
		RejectionReason: p.RejectionReason,
	}
	if p.ReviewedAt != nil {
		row.ReviewedAt = &models.CustomDateTime{Time: *p.ReviewedAt}
	}
	if p.ReviewedBy != nil {
		row.ReviewedBy = RecordID("users", *p.ReviewedBy)
	}

	return row
}
