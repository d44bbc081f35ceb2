package model

import (
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"tradelink/internal/domain/entity"
)

// ProductRow mirrors the 'products' table.
type ProductRow struct {
	ID               *models.RecordID      `json:"id,omitempty"`
	Wholesaler       *models.RecordID      `json:"wholesaler"`
	Name             string                `json:"name"`
	Description      string                `json:"description"`
	Price            float64               `json:"price"`
	Stock            int                   `json:"stock"`
	MinOrderQuantity int                   `json:"min_order_quantity"`
	Category         string                `json:"category"`
	ImageURL         string                `json:"image_url"`
	Available        bool                  `json:"available"`
	CreatedAt        models.CustomDateTime `json:"created_at"`
	UpdatedAt        models.CustomDateTime `json:"updated_at"`
}

// ToEntity maps the row back to a pure domain entity.
func (r ProductRow) ToEntity() entity.Product {
	return entity.Product{
		ID:               RowUUID(r.ID),
		WholesalerID:     RowUUID(r.Wholesaler),
		Name:             r.Name,
		Description:      r.Description,
		Price:            r.Price,
		Stock:            r.Stock,
		MinOrderQuantity: r.MinOrderQuantity,
		Category:         r.Category,
		ImageURL:         r.ImageURL,
		Available:        r.Available,
		CreatedAt:        r.CreatedAt.Time,
		UpdatedAt:        r.UpdatedAt.Time,
	}
}

// FromProduct maps a domain entity onto its row representation.
func FromProduct(p entity.Product) ProductRow {
	return ProductRow{
		ID:               RecordID("products", p.ID),
		Wholesaler:       RecordID("users", p.WholesalerID),
		Name:             p.Name,
		Description:      p.Description,
		Price:            p.Price,
		Stock:            p.Stock,
		MinOrderQuantity: p.MinOrderQuantity,
		Category:         p.Category,
		ImageURL:         p.ImageURL,
		Available:        p.Available,
		CreatedAt:        models.CustomDateTime{Time: p.CreatedAt},
		UpdatedAt:        models.CustomDateTime{Time: p.UpdatedAt},
	}
}
