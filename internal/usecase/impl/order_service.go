package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	"tradelink/internal/domain/entity"
	domainerrors "tradelink/internal/domain/errors"
	"tradelink/internal/domain/service"
	"tradelink/internal/store"
	"tradelink/internal/usecase"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	store    *store.Store
	payments service.PaymentProvider
	logger   *slog.Logger
	now      func() time.Time
}

// OrderServiceParams holds dependencies for orderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	Store    *store.Store
	Payments service.PaymentProvider `optional:"true"`
	Logger   *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		store:    params.Store,
		payments: params.Payments,
		logger:   params.Logger,
		now:      time.Now,
	}
}

// ListOrders returns the orders visible to the viewer.
func (srv *orderService) ListOrders(_ context.Context, viewer usecase.Viewer) []entity.Order {
	orders := srv.store.State().Orders

	switch viewer.Role {
	case entity.RoleAdmin, entity.RoleSupport:
		return orders
	case entity.RoleWholesaler:
		return filterOrders(orders, func(o entity.Order) bool { return o.WholesalerID == viewer.UserID })
	default:
		return filterOrders(orders, func(o entity.Order) bool { return o.RetailerID == viewer.UserID })
	}
}

// PlaceOrder validates the cart and creates one order per wholesaler. Every
// order must individually clear the platform minimum; the whole checkout is
// rejected before any order is created when one does not.
func (srv *orderService) PlaceOrder(ctx context.Context, viewer usecase.Viewer, input usecase.PlaceOrderInput) ([]usecase.PlacedOrder, error) {
	if viewer.Role != entity.RoleRetailer {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "only retailers may place orders")
	}
	if len(input.Items) == 0 {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "cart is empty")
	}

	state := srv.store.State()

	type cart struct {
		wholesalerID uuid.UUID
		items        []entity.OrderItem
		total        float64
	}
	var carts []*cart
	byWholesaler := make(map[uuid.UUID]*cart)

	for _, line := range input.Items {
		product, ok := state.ProductByID(line.ProductID)
		if !ok {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, "cart references unknown product")
		}
		if !product.Available {
			return nil, errors.Wrapf(domainerrors.ErrValidationFailed, "product %q is not available", product.Name)
		}
		if line.Quantity < product.MinOrderQuantity {
			return nil, errors.Wrapf(domainerrors.ErrValidationFailed,
				"product %q requires a minimum of %d units", product.Name, product.MinOrderQuantity)
		}
		if line.Quantity > product.Stock {
			return nil, errors.Wrapf(domainerrors.ErrValidationFailed,
				"product %q has only %d units in stock", product.Name, product.Stock)
		}

		c, ok := byWholesaler[product.WholesalerID]
		if !ok {
			c = &cart{wholesalerID: product.WholesalerID}
			byWholesaler[product.WholesalerID] = c
			carts = append(carts, c)
		}

		// Name and price are snapshots; later product edits must not
		// retroactively change placed orders.
		item := entity.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			Price:       product.Price,
			Total:       product.Price * float64(line.Quantity),
		}
		c.items = append(c.items, item)
		c.total += item.Total
	}

	if minimum := state.Settings.MinimumOrderValue; minimum > 0 {
		for _, c := range carts {
			if c.total < minimum {
				return nil, errors.Wrap(domainerrors.ErrOrderBelowMinimum, "checkout rejected")
			}
		}
	}

	now := srv.now()
	placed := make([]usecase.PlacedOrder, 0, len(carts))
	for _, c := range carts {
		order := entity.Order{
			ID:            uuid.New(),
			RetailerID:    viewer.UserID,
			WholesalerID:  c.wholesalerID,
			Items:         c.items,
			Total:         c.total,
			Status:        entity.OrderStatusPending,
			PaymentStatus: entity.PaymentStatusPending,
			PaymentMethod: input.PaymentMethod,
			Notes:         input.Notes,
			PickupTime:    input.PickupTime,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		srv.store.Dispatch(store.AddOrder{Meta: store.NewMeta(now), Order: order})

		paymentURL := ""
		if srv.payments != nil && !offlinePaymentMethod(input.PaymentMethod) {
			url, err := srv.payments.Begin(ctx, order.ID, order.Total)
			if err != nil {
				// The order stands; payment can be retried through the
				// provider callback flow.
				srv.logger.Warn("Failed to start payment flow",
					slog.Any("orderID", order.ID), slog.Any("error", err))
			} else {
				paymentURL = url
			}
		}

		placed = append(placed, usecase.PlacedOrder{Order: order, PaymentURL: paymentURL})
	}

	srv.logger.Info("Checkout completed",
		slog.Any("retailerID", viewer.UserID),
		slog.Int("orders", len(placed)))

	return placed, nil
}

// UpdateStatus advances an order along its linear progression.
func (srv *orderService) UpdateStatus(_ context.Context, viewer usecase.Viewer, orderID uuid.UUID, next entity.OrderStatus) (entity.Order, error) {
	if !next.IsValid() {
		return entity.Order{}, errors.Wrap(domainerrors.ErrValidationFailed, "unknown order status")
	}

	order, ok := srv.store.State().OrderByID(orderID)
	if !ok {
		return entity.Order{}, errors.Wrap(domainerrors.ErrOrderNotFound, "status update failed")
	}
	if err := requireStatusChangeAccess(viewer, order, next); err != nil {
		return entity.Order{}, err
	}
	if !order.Status.CanTransitionTo(next) {
		return entity.Order{}, errors.Wrapf(domainerrors.ErrInvalidStatusTransition,
			"cannot move order from %s to %s", order.Status, next)
	}

	now := srv.now()
	srv.store.Dispatch(store.UpdateOrderStatus{Meta: store.NewMeta(now), OrderID: orderID, Status: next})

	order.Status = next
	order.UpdatedAt = now

	return order, nil
}

// CompletePayment consumes a payment provider callback and records the
// outcome on the order.
func (srv *orderService) CompletePayment(_ context.Context, result service.PaymentResult) error {
	if _, ok := srv.store.State().OrderByID(result.OrderID); !ok {
		return errors.Wrap(domainerrors.ErrOrderNotFound, "payment callback for unknown order")
	}

	status := entity.PaymentStatusFailed
	if result.Outcome == service.PaymentOutcomeSuccess {
		status = entity.PaymentStatusPaid
	}

	srv.store.Dispatch(store.UpdateOrderPayment{
		Meta:          store.NewMeta(srv.now()),
		OrderID:       result.OrderID,
		PaymentStatus: status,
	})

	srv.logger.Info("Payment outcome recorded",
		slog.Any("orderID", result.OrderID),
		slog.String("outcome", string(result.Outcome)))

	return nil
}

// ListReturnRequests returns the return requests visible to the viewer.
func (srv *orderService) ListReturnRequests(_ context.Context, viewer usecase.Viewer) []entity.ReturnRequest {
	requests := srv.store.State().ReturnRequests

	switch viewer.Role {
	case entity.RoleAdmin, entity.RoleSupport:
		return requests
	case entity.RoleWholesaler:
		return filterReturns(requests, func(r entity.ReturnRequest) bool { return r.WholesalerID == viewer.UserID })
	default:
		return filterReturns(requests, func(r entity.ReturnRequest) bool { return r.RetailerID == viewer.UserID })
	}
}

// FileReturn files a return request against one of the viewer's completed
// orders. Item snapshots come from the order lines, not the live catalog.
func (srv *orderService) FileReturn(_ context.Context, viewer usecase.Viewer, input usecase.FileReturnInput) (entity.ReturnRequest, error) {
	if viewer.Role != entity.RoleRetailer {
		return entity.ReturnRequest{}, errors.Wrap(domainerrors.ErrForbidden, "only retailers may file returns")
	}

	order, ok := srv.store.State().OrderByID(input.OrderID)
	if !ok {
		return entity.ReturnRequest{}, errors.Wrap(domainerrors.ErrOrderNotFound, "return filing failed")
	}
	if order.RetailerID != viewer.UserID {
		return entity.ReturnRequest{}, errors.Wrap(domainerrors.ErrForbidden, "order belongs to another retailer")
	}
	if order.Status != entity.OrderStatusCompleted {
		return entity.ReturnRequest{}, errors.Wrap(domainerrors.ErrValidationFailed,
			"returns can only be filed against completed orders")
	}
	if len(input.Items) == 0 {
		return entity.ReturnRequest{}, errors.Wrap(domainerrors.ErrValidationFailed, "return has no items")
	}

	priority := input.Priority
	if !priority.IsValid() {
		priority = entity.PriorityMedium
	}

	items := make([]entity.ReturnItem, 0, len(input.Items))
	requested := 0.0
	for _, line := range input.Items {
		ordered, ok := orderItemByProduct(order, line.ProductID)
		if !ok {
			return entity.ReturnRequest{}, errors.Wrap(domainerrors.ErrValidationFailed,
				"return references a product not in the order")
		}
		if line.Quantity < 1 || line.Quantity > ordered.Quantity {
			return entity.ReturnRequest{}, errors.Wrapf(domainerrors.ErrValidationFailed,
				"return quantity for %q exceeds the ordered amount", ordered.ProductName)
		}

		items = append(items, entity.ReturnItem{
			ProductID:   ordered.ProductID,
			ProductName: ordered.ProductName,
			Quantity:    line.Quantity,
			Price:       ordered.Price,
			Reason:      line.Reason,
		})
		requested += ordered.Price * float64(line.Quantity)
	}

	now := srv.now()
	request := entity.ReturnRequest{
		ID:              uuid.New(),
		OrderID:         order.ID,
		RetailerID:      order.RetailerID,
		WholesalerID:    order.WholesalerID,
		Reason:          input.Reason,
		Description:     input.Description,
		Status:          entity.ReturnStatusPending,
		Priority:        priority,
		RequestedAmount: requested,
		Items:           items,
		Images:          input.Images,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	srv.store.Dispatch(store.AddReturnRequest{Meta: store.NewMeta(now), Request: request})

	srv.logger.Debug("Return request filed",
		slog.Any("requestID", request.ID), slog.Any("orderID", order.ID))

	return request, nil
}

// requireStatusChangeAccess enforces who may drive which transition: the
// wholesaler advances fulfillment on their own orders, the retailer may only
// cancel their own, admins may do either.
func requireStatusChangeAccess(viewer usecase.Viewer, order entity.Order, next entity.OrderStatus) error {
	switch viewer.Role {
	case entity.RoleAdmin:
		return nil
	case entity.RoleWholesaler:
		if order.WholesalerID == viewer.UserID {
			return nil
		}
	case entity.RoleRetailer:
		if order.RetailerID == viewer.UserID && next == entity.OrderStatusCancelled {
			return nil
		}
	}

	return errors.Wrap(domainerrors.ErrForbidden, "not allowed to change this order")
}

// offlinePaymentMethod reports whether the method settles outside the
// hosted payment flow.
func offlinePaymentMethod(method string) bool {
	switch strings.ToLower(method) {
	case "cash", "cash_on_pickup", "bank_transfer":
		return true
	default:
		return false
	}
}

func orderItemByProduct(order entity.Order, productID uuid.UUID) (entity.OrderItem, bool) {
	for _, item := range order.Items {
		if item.ProductID == productID {
			return item, true
		}
	}

	return entity.OrderItem{}, false
}

func filterOrders(orders []entity.Order, keep func(entity.Order) bool) []entity.Order {
	out := make([]entity.Order, 0, len(orders))
	for _, o := range orders {
		if keep(o) {
			out = append(out, o)
		}
	}

	return out
}

func filterReturns(requests []entity.ReturnRequest, keep func(entity.ReturnRequest) bool) []entity.ReturnRequest {
	out := make([]entity.ReturnRequest, 0, len(requests))
	for _, r := range requests {
		if keep(r) {
			out = append(out, r)
		}
	}

	return out
}
