package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"tradelink/internal/delivery/http/middleware"
	"tradelink/internal/delivery/http/response"
	"tradelink/internal/usecase"
)

// CatalogHandler holds dependencies for product and promotion handlers.
type CatalogHandler struct {
	uc     usecase.CatalogUsecase
	logger *slog.Logger
}

// NewCatalogHandler is the constructor for CatalogHandler, injected by Fx.
func NewCatalogHandler(uc usecase.CatalogUsecase, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{uc: uc, logger: logger}
}

type productRequest struct {
	Name             string  `json:"name" validate:"required"`
	Description      string  `json:"description"`
	Price            float64 `json:"price" validate:"gte=0"`
	Stock            int     `json:"stock" validate:"gte=0"`
	MinOrderQuantity int     `json:"min_order_quantity" validate:"gte=1"`
	Category         string  `json:"category"`
	ImageURL         string  `json:"image_url"`
	Available        bool    `json:"available"`
}

type promotionRequest struct {
	Title       string      `json:"title" validate:"required"`
	Description string      `json:"description"`
	Discount    int         `json:"discount" validate:"gte=1,lte=100"`
	ValidFrom   time.Time   `json:"valid_from" validate:"required"`
	ValidTo     time.Time   `json:"valid_to" validate:"required"`
	ProductIDs  []uuid.UUID `json:"product_ids"`
}

func (r productRequest) toInput() usecase.ProductInput {
	return usecase.ProductInput{
		Name:             r.Name,
		Description:      r.Description,
		Price:            r.Price,
		Stock:            r.Stock,
		MinOrderQuantity: r.MinOrderQuantity,
		Category:         r.Category,
		ImageURL:         r.ImageURL,
		Available:        r.Available,
	}
}

func (r promotionRequest) toInput() usecase.PromotionInput {
	return usecase.PromotionInput{
		Title:       r.Title,
		Description: r.Description,
		Discount:    r.Discount,
		ValidFrom:   r.ValidFrom,
		ValidTo:     r.ValidTo,
		ProductIDs:  r.ProductIDs,
	}
}

// ListProducts handles the catalog listing request.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	products := h.uc.ListProducts(c.Request().Context())

	return response.Success(c, http.StatusOK, products, "Products retrieved successfully")
}

// CreateProduct handles a wholesaler listing a new product.
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.uc.CreateProduct(c.Request().Context(), viewer, req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, product, "Product listed successfully")
}

// UpdateProduct handles a product edit.
func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product id")
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid product input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.uc.UpdateProduct(c.Request().Context(), viewer, productID, req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "Product updated successfully")
}

// DeleteProduct handles a product removal.
func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product id")
	}

	if err := h.uc.DeleteProduct(c.Request().Context(), viewer, productID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Product removed successfully")
}

// ListPromotions handles the promotion listing request.
func (h *CatalogHandler) ListPromotions(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	promotions := h.uc.ListPromotions(c.Request().Context(), viewer)

	return response.Success(c, http.StatusOK, promotions, "Promotions retrieved successfully")
}

// SubmitPromotion handles a wholesaler submitting a campaign for review.
func (h *CatalogHandler) SubmitPromotion(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req promotionRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid promotion input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	promotion, err := h.uc.SubmitPromotion(c.Request().Context(), viewer, req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, promotion, "Promotion submitted successfully")
}

// UpdatePromotion handles a promotion edit.
func (h *CatalogHandler) UpdatePromotion(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	promotionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid promotion id")
	}

	var req promotionRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid promotion input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	promotion, err := h.uc.UpdatePromotion(c.Request().Context(), viewer, promotionID, req.toInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, promotion, "Promotion updated successfully")
}

// DeletePromotion handles a promotion withdrawal.
func (h *CatalogHandler) DeletePromotion(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	promotionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid promotion id")
	}

	if err := h.uc.DeletePromotion(c.Request().Context(), viewer, promotionID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Promotion removed successfully")
}
