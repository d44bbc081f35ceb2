package entity

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry owned by exactly one wholesaler.
// Ownership checks are a delivery-layer concern; the entity itself only
// records the owning wholesaler.
type Product struct {
	ID               uuid.UUID `json:"id"`                 // The GUID of the product.
	WholesalerID     uuid.UUID `json:"wholesaler_id"`      // The user ID of the owning wholesaler.
	Name             string    `json:"name"`               // The product's display name.
	Description      string    `json:"description"`        // A description of the product.
	Price            float64   `json:"price"`              // Unit price, non-negative.
	Stock            int       `json:"stock"`              // Units in stock, non-negative.
	MinOrderQuantity int       `json:"min_order_quantity"` // Minimum units per order, at least 1.
	Category         string    `json:"category"`           // Catalog category label.
	ImageURL         string    `json:"image_url"`          // URL of the product image.
	Available        bool      `json:"available"`          // Whether the product is currently orderable.
	CreatedAt        time.Time `json:"created_at"`         // Timestamp of when the product was listed.
	UpdatedAt        time.Time `json:"updated_at"`         // Timestamp of the last modification.
}
