package impl

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	"tradelink/internal/domain/entity"
	domainerrors "tradelink/internal/domain/errors"
	"tradelink/internal/store"
	"tradelink/internal/usecase"
)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	store  *store.Store
	logger *slog.Logger
	now    func() time.Time
}

// CatalogServiceParams holds dependencies for catalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	Store  *store.Store
	Logger *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		store:  params.Store,
		logger: params.Logger,
		now:    time.Now,
	}
}

// ListProducts returns the full catalog. Visibility filtering is a UI
// concern; every role may browse the catalog.
func (srv *catalogService) ListProducts(_ context.Context) []entity.Product {
	return srv.store.State().Products
}

// CreateProduct lists a new product owned by the calling wholesaler.
func (srv *catalogService) CreateProduct(_ context.Context, viewer usecase.Viewer, input usecase.ProductInput) (entity.Product, error) {
	if viewer.Role != entity.RoleWholesaler {
		return entity.Product{}, errors.Wrap(domainerrors.ErrForbidden, "only wholesalers may list products")
	}
	if err := validateProductInput(input); err != nil {
		return entity.Product{}, err
	}

	state := srv.store.State()
	owned := 0
	for _, p := range state.Products {
		if p.WholesalerID == viewer.UserID {
			owned++
		}
	}
	if limit := state.Settings.MaxProductsPerWholesaler; limit > 0 && owned >= limit {
		return entity.Product{}, errors.Wrap(domainerrors.ErrConflict, "catalog limit reached for this wholesaler")
	}

	now := srv.now()
	product := entity.Product{
		ID:               uuid.New(),
		WholesalerID:     viewer.UserID,
		Name:             input.Name,
		Description:      input.Description,
		Price:            input.Price,
		Stock:            input.Stock,
		MinOrderQuantity: input.MinOrderQuantity,
		Category:         input.Category,
		ImageURL:         input.ImageURL,
		Available:        input.Available,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	srv.store.Dispatch(store.AddProduct{Meta: store.NewMeta(now), Product: product})

	srv.logger.Debug("Product listed", slog.Any("productID", product.ID), slog.Any("wholesalerID", viewer.UserID))

	return product, nil
}

// UpdateProduct replaces the mutable fields of a product. Identity,
// ownership and the creation timestamp are preserved.
func (srv *catalogService) UpdateProduct(_ context.Context, viewer usecase.Viewer, productID uuid.UUID, input usecase.ProductInput) (entity.Product, error) {
	existing, ok := srv.store.State().ProductByID(productID)
	if !ok {
		return entity.Product{}, errors.Wrap(domainerrors.ErrProductNotFound, "update failed")
	}
	if err := requireProductAccess(viewer, existing); err != nil {
		return entity.Product{}, err
	}
	if err := validateProductInput(input); err != nil {
		return entity.Product{}, err
	}

	now := srv.now()
	updated := existing
	updated.Name = input.Name
	updated.Description = input.Description
	updated.Price = input.Price
	updated.Stock = input.Stock
	updated.MinOrderQuantity = input.MinOrderQuantity
	updated.Category = input.Category
	updated.ImageURL = input.ImageURL
	updated.Available = input.Available
	updated.UpdatedAt = now

	srv.store.Dispatch(store.UpdateProduct{Meta: store.NewMeta(now), Product: updated})

	return updated, nil
}

// DeleteProduct removes a product from the catalog.
func (srv *catalogService) DeleteProduct(_ context.Context, viewer usecase.Viewer, productID uuid.UUID) error {
	existing, ok := srv.store.State().ProductByID(productID)
	if !ok {
		return errors.Wrap(domainerrors.ErrProductNotFound, "delete failed")
	}
	if err := requireProductAccess(viewer, existing); err != nil {
		return err
	}

	srv.store.Dispatch(store.DeleteProduct{Meta: store.NewMeta(srv.now()), ProductID: productID})

	srv.logger.Debug("Product removed", slog.Any("productID", productID))

	return nil
}

// ListPromotions returns the promotions visible to the viewer: wholesalers
// see their own submissions, retailers see live campaigns, admin and support
// see everything.
func (srv *catalogService) ListPromotions(_ context.Context, viewer usecase.Viewer) []entity.Promotion {
	promotions := srv.store.State().Promotions

	switch viewer.Role {
	case entity.RoleAdmin, entity.RoleSupport:
		return promotions
	case entity.RoleWholesaler:
		own := make([]entity.Promotion, 0, len(promotions))
		for _, p := range promotions {
			if p.WholesalerID == viewer.UserID {
				own = append(own, p)
			}
		}

		return own
	default:
		live := make([]entity.Promotion, 0, len(promotions))
		for _, p := range promotions {
			if p.Active && p.Status == entity.PromotionStatusApproved {
				live = append(live, p)
			}
		}

		return live
	}
}

// SubmitPromotion files a discount campaign for moderation. When the
// platform auto-approves promotions the returned record is already live.
func (srv *catalogService) SubmitPromotion(_ context.Context, viewer usecase.Viewer, input usecase.PromotionInput) (entity.Promotion, error) {
	if viewer.Role != entity.RoleWholesaler {
		return entity.Promotion{}, errors.Wrap(domainerrors.ErrForbidden, "only wholesalers may submit promotions")
	}
	if err := srv.validatePromotionInput(viewer, input); err != nil {
		return entity.Promotion{}, err
	}

	now := srv.now()
	promotion := entity.Promotion{
		ID:           uuid.New(),
		WholesalerID: viewer.UserID,
		Title:        input.Title,
		Description:  input.Description,
		Discount:     input.Discount,
		ValidFrom:    input.ValidFrom,
		ValidTo:      input.ValidTo,
		ProductIDs:   input.ProductIDs,
		Status:       entity.PromotionStatusPending,
		SubmittedAt:  now,
	}
	srv.store.Dispatch(store.AddPromotion{Meta: store.NewMeta(now), Promotion: promotion})

	// Re-read so the caller observes auto-approval when it applied.
	if stored, ok := promotionByID(srv.store.State(), promotion.ID); ok {
		promotion = stored
	}

	srv.logger.Debug("Promotion submitted",
		slog.Any("promotionID", promotion.ID),
		slog.String("status", string(promotion.Status)))

	return promotion, nil
}

// UpdatePromotion edits a submission. Wholesalers may only edit their own
// promotions while the review is still pending.
func (srv *catalogService) UpdatePromotion(_ context.Context, viewer usecase.Viewer, promotionID uuid.UUID, input usecase.PromotionInput) (entity.Promotion, error) {
	existing, ok := promotionByID(srv.store.State(), promotionID)
	if !ok {
		return entity.Promotion{}, errors.Wrap(domainerrors.ErrPromotionNotFound, "update failed")
	}
	if viewer.Role != entity.RoleAdmin {
		if viewer.Role != entity.RoleWholesaler || existing.WholesalerID != viewer.UserID {
			return entity.Promotion{}, errors.Wrap(domainerrors.ErrForbidden, "promotion belongs to another wholesaler")
		}
		if existing.Status != entity.PromotionStatusPending {
			return entity.Promotion{}, errors.Wrap(domainerrors.ErrConflict, "promotion already reviewed")
		}
	}
	if err := srv.validatePromotionInput(usecase.Viewer{UserID: existing.WholesalerID, Role: entity.RoleWholesaler}, input); err != nil {
		return entity.Promotion{}, err
	}

	updated := existing
	updated.Title = input.Title
	updated.Description = input.Description
	updated.Discount = input.Discount
	updated.ValidFrom = input.ValidFrom
	updated.ValidTo = input.ValidTo
	updated.ProductIDs = input.ProductIDs

	srv.store.Dispatch(store.UpdatePromotion{Meta: store.NewMeta(srv.now()), Promotion: updated})

	return updated, nil
}

// DeletePromotion withdraws a promotion.
func (srv *catalogService) DeletePromotion(_ context.Context, viewer usecase.Viewer, promotionID uuid.UUID) error {
	existing, ok := promotionByID(srv.store.State(), promotionID)
	if !ok {
		return errors.Wrap(domainerrors.ErrPromotionNotFound, "delete failed")
	}
	if viewer.Role != entity.RoleAdmin {
		if viewer.Role != entity.RoleWholesaler || existing.WholesalerID != viewer.UserID {
			return errors.Wrap(domainerrors.ErrForbidden, "promotion belongs to another wholesaler")
		}
	}

	srv.store.Dispatch(store.DeletePromotion{Meta: store.NewMeta(srv.now()), PromotionID: promotionID})

	return nil
}

// validatePromotionInput checks the campaign fields and that every covered
// product exists and belongs to the submitting wholesaler.
func (srv *catalogService) validatePromotionInput(viewer usecase.Viewer, input usecase.PromotionInput) error {
	if input.Title == "" {
		return errors.Wrap(domainerrors.ErrValidationFailed, "promotion title is required")
	}
	if input.Discount < 1 || input.Discount > 100 {
		return errors.Wrap(domainerrors.ErrValidationFailed, "discount must be between 1 and 100 percent")
	}
	if !input.ValidTo.After(input.ValidFrom) {
		return errors.Wrap(domainerrors.ErrValidationFailed, "validity window must end after it starts")
	}

	state := srv.store.State()
	for _, id := range input.ProductIDs {
		product, ok := state.ProductByID(id)
		if !ok {
			return errors.Wrap(domainerrors.ErrProductNotFound, "promotion references unknown product")
		}
		if product.WholesalerID != viewer.UserID {
			return errors.Wrap(domainerrors.ErrForbidden, "promotion references another wholesaler's product")
		}
	}

	return nil
}

func validateProductInput(input usecase.ProductInput) error {
	switch {
	case input.Name == "":
		return errors.Wrap(domainerrors.ErrValidationFailed, "product name is required")
	case input.Price < 0:
		return errors.Wrap(domainerrors.ErrValidationFailed, "price must not be negative")
	case input.Stock < 0:
		return errors.Wrap(domainerrors.ErrValidationFailed, "stock must not be negative")
	case input.MinOrderQuantity < 1:
		return errors.Wrap(domainerrors.ErrValidationFailed, "minimum order quantity must be at least 1")
	default:
		return nil
	}
}

// requireProductAccess allows the owning wholesaler and admins.
func requireProductAccess(viewer usecase.Viewer, product entity.Product) error {
	if viewer.Role == entity.RoleAdmin {
		return nil
	}
	if viewer.Role == entity.RoleWholesaler && product.WholesalerID == viewer.UserID {
		return nil
	}

	return errors.Wrap(domainerrors.ErrForbidden, "product belongs to another wholesaler")
}

func promotionByID(state store.State, id uuid.UUID) (entity.Promotion, bool) {
	for _, p := range state.Promotions {
		if p.ID == id {
			return p, true
		}
	}

	return entity.Promotion{}, false
}
