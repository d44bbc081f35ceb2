package usecase

import (
	"context"

	"github.com/google/uuid"

	"tradelink/internal/domain/entity"
	"tradelink/internal/domain/service"
)

// CartItemInput is one line of a checkout cart.
type CartItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// PlaceOrderInput defines a checkout. Items spanning several wholesalers
// are split into one order per wholesaler.
type PlaceOrderInput struct {
	Items         []CartItemInput
	PaymentMethod string
	Notes         string
	PickupTime    string
}

// PlacedOrder pairs a created order with the payment URL its payer is
// sent to. PaymentURL is empty for offline payment methods.
type PlacedOrder struct {
	Order      entity.Order
	PaymentURL string
}

// ReturnItemInput is one line of a return request.
type ReturnItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Reason    string
}

// FileReturnInput defines a new return request against an order.
type FileReturnInput struct {
	OrderID     uuid.UUID
	Reason      string
	Description string
	Priority    entity.Priority
	Items       []ReturnItemInput
	Images      []string
}

// OrderUsecase defines order lifecycle, payment and return operations.
type OrderUsecase interface {
	// ListOrders returns the orders visible to the viewer: own orders for
	// retailers and wholesalers, all orders for admins.
	ListOrders(ctx context.Context, viewer Viewer) []entity.Order

	// PlaceOrder validates the cart and creates one order per wholesaler.
	PlaceOrder(ctx context.Context, viewer Viewer, input PlaceOrderInput) ([]PlacedOrder, error)

	// UpdateStatus advances an order along its linear progression.
	UpdateStatus(ctx context.Context, viewer Viewer, orderID uuid.UUID, next entity.OrderStatus) (entity.Order, error)

	// CompletePayment consumes a payment provider callback.
	CompletePayment(ctx context.Context, result service.PaymentResult) error

	// ListReturnRequests returns the return requests visible to the viewer.
	ListReturnRequests(ctx context.Context, viewer Viewer) []entity.ReturnRequest

	// FileReturn files a return request against one of the viewer's orders.
	FileReturn(ctx context.Context, viewer Viewer, input FileReturnInput) (entity.ReturnRequest, error)
}
