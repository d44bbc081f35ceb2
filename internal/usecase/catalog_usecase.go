package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tradelink/internal/domain/entity"
)

// ProductInput defines the data for listing or editing a product.
type ProductInput struct {
	Name             string
	Description      string
	Price            float64
	Stock            int
	MinOrderQuantity int
	Category         string
	ImageURL         string
	Available        bool
}

// PromotionInput defines the data for submitting or editing a promotion.
type PromotionInput struct {
	Title       string
	Description string
	Discount    int
	ValidFrom   time.Time
	ValidTo     time.Time
	ProductIDs  []uuid.UUID
}

// Viewer identifies the authenticated caller for authorization decisions.
type Viewer struct {
	UserID uuid.UUID
	Role   entity.Role
}

// CatalogUsecase defines the product and promotion operations.
type CatalogUsecase interface {
	ListProducts(ctx context.Context) []entity.Product
	CreateProduct(ctx context.Context, viewer Viewer, input ProductInput) (entity.Product, error)
	UpdateProduct(ctx context.Context, viewer Viewer, productID uuid.UUID, input ProductInput) (entity.Product, error)
	DeleteProduct(ctx context.Context, viewer Viewer, productID uuid.UUID) error

	ListPromotions(ctx context.Context, viewer Viewer) []entity.Promotion
	SubmitPromotion(ctx context.Context, viewer Viewer, input PromotionInput) (entity.Promotion, error)
	UpdatePromotion(ctx context.Context, viewer Viewer, promotionID uuid.UUID, input PromotionInput) (entity.Promotion, error)
	DeletePromotion(ctx context.Context, viewer Viewer, promotionID uuid.UUID) error
}
