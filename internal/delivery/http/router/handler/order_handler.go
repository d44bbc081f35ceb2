package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"tradelink/internal/delivery/http/middleware"
	"tradelink/internal/delivery/http/response"
	"tradelink/internal/domain/entity"
	"tradelink/internal/domain/service"
	"tradelink/internal/usecase"
)

// OrderHandler holds dependencies for order and return handlers.
type OrderHandler struct {
	uc     usecase.OrderUsecase
	logger *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(uc usecase.OrderUsecase, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, logger: logger}
}

type cartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gte=1"`
}

type placeOrderRequest struct {
	Items         []cartItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" validate:"required"`
	Notes         string            `json:"notes"`
	PickupTime    string            `json:"pickup_time"`
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type returnItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"gte=1"`
	Reason    string    `json:"reason"`
}

type fileReturnRequest struct {
	OrderID     uuid.UUID           `json:"order_id" validate:"required"`
	Reason      string              `json:"reason" validate:"required"`
	Description string              `json:"description"`
	Priority    string              `json:"priority"`
	Items       []returnItemRequest `json:"items" validate:"required,min=1,dive"`
	Images      []string            `json:"images"`
}

// ListOrders handles the order listing request.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	orders := h.uc.ListOrders(c.Request().Context(), viewer)

	return response.Success(c, http.StatusOK, orders, "Orders retrieved successfully")
}

// PlaceOrder handles a retailer checkout.
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid checkout input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	items := make([]usecase.CartItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, usecase.CartItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	placed, err := h.uc.PlaceOrder(c.Request().Context(), viewer, usecase.PlaceOrderInput{
		Items:         items,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		PickupTime:    req.PickupTime,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, placed, "Order placed successfully")
}

// UpdateStatus handles an order status transition.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order id")
	}

	var req orderStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid status input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	order, err := h.uc.UpdateStatus(c.Request().Context(), viewer, orderID, entity.OrderStatus(req.Status))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "Order status updated successfully")
}

// PaymentReturn consumes the provider's success callback. The provider
// redirects the payer here with the order and amount as query parameters.
func (h *OrderHandler) PaymentReturn(c echo.Context) error {
	orderID, err := uuid.Parse(c.QueryParam("order"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order reference")
	}
	amount, _ := strconv.ParseFloat(c.QueryParam("amount"), 64)

	result := service.PaymentResult{
		OrderID: orderID,
		Outcome: service.PaymentOutcomeSuccess,
		Amount:  amount,
	}
	if err := h.uc.CompletePayment(c.Request().Context(), result); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Payment completed")
}

// PaymentCancel consumes the provider's cancel callback.
func (h *OrderHandler) PaymentCancel(c echo.Context) error {
	orderID, err := uuid.Parse(c.QueryParam("order"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order reference")
	}

	result := service.PaymentResult{
		OrderID: orderID,
		Outcome: service.PaymentOutcomeCancelled,
	}
	if err := h.uc.CompletePayment(c.Request().Context(), result); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Payment cancelled")
}

// ListReturns handles the return request listing.
func (h *OrderHandler) ListReturns(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	requests := h.uc.ListReturnRequests(c.Request().Context(), viewer)

	return response.Success(c, http.StatusOK, requests, "Return requests retrieved successfully")
}

// FileReturn handles a retailer filing a return request.
func (h *OrderHandler) FileReturn(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req fileReturnRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid return input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	items := make([]usecase.ReturnItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, usecase.ReturnItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Reason:    item.Reason,
		})
	}

	request, err := h.uc.FileReturn(c.Request().Context(), viewer, usecase.FileReturnInput{
		OrderID:     req.OrderID,
		Reason:      req.Reason,
		Description: req.Description,
		Priority:    entity.Priority(req.Priority),
		Items:       items,
		Images:      req.Images,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, request, "Return request filed successfully")
}
