package model

import (
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"tradelink/internal/domain/entity"
)

// OrderRow mirrors the 'orders' table. Line items live in the
// 'order_items' child table; aggregate reads join them into Items.
type OrderRow struct {
	ID            *models.RecordID      `json:"id,omitempty"`
	Retailer      *models.RecordID      `json:"retailer"`
	Wholesaler    *models.RecordID      `json:"wholesaler"`
	Items         []OrderItemRow        `json:"items,omitempty"`
	Total         float64               `json:"total"`
	Status        string                `json:"status"`
	PaymentStatus string                `json:"payment_status"`
	PaymentMethod string                `json:"payment_method"`
	Notes         string                `json:"notes"`
	PickupTime    string                `json:"pickup_time"`
	CreatedAt     models.CustomDateTime `json:"created_at"`
	UpdatedAt     models.CustomDateTime `json:"updated_at"`
}

// OrderItemRow mirrors the 'order_items' child table. Order links the row
// to its parent order record.
type OrderItemRow struct {
	ID          *models.RecordID `json:"id,omitempty"`
	Order       *models.RecordID `json:"order,omitempty"`
	Product     *models.RecordID `json:"product"`
	ProductName string           `json:"product_name"`
	Quantity    int              `json:"quantity"`
	Price       float64          `json:"price"`
	Total       float64          `json:"total"`
	Position    int              `json:"position"`
}

// ToEntity maps the joined row back to a pure domain entity.
func (r OrderRow) ToEntity() entity.Order {
	items := make([]entity.OrderItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = entity.OrderItem{
			ProductID:   RowUUID(item.Product),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Total:       item.Total,
		}
	}

	return entity.Order{
		ID:            RowUUID(r.ID),
		RetailerID:    RowUUID(r.Retailer),
		WholesalerID:  RowUUID(r.Wholesaler),
		Items:         items,
		Total:         r.Total,
		Status:        entity.OrderStatus(r.Status),
		PaymentStatus: entity.PaymentStatus(r.PaymentStatus),
		PaymentMethod: r.PaymentMethod,
		Notes:         r.Notes,
		PickupTime:    r.PickupTime,
		CreatedAt:     r.CreatedAt.Time,
		UpdatedAt:     r.UpdatedAt.Time,
	}
}

// FromOrder maps a domain entity onto its parent row. Items are written
// separately through FromOrderItems.
func FromOrder(o entity.Order) OrderRow {
	return OrderRow{
		ID:            RecordID("orders", o.ID),
		Retailer:      RecordID("users", o.RetailerID),
		Wholesaler:    RecordID("users", o.WholesalerID),
		Total:         o.Total,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		PaymentMethod: o.PaymentMethod,
		Notes:         o.Notes,
		PickupTime:    o.PickupTime,
		CreatedAt:     models.CustomDateTime{Time: o.CreatedAt},
		UpdatedAt:     models.CustomDateTime{Time: o.UpdatedAt},
	}
}

// FromOrderItems maps the line items of an order onto child rows.
// Position preserves the item sequence across the unordered child table.
func FromOrderItems(o entity.Order) []OrderItemRow {
	rows := make([]OrderItemRow, len(o.Items))
	for i, item := range o.Items {
		rows[i] = OrderItemRow{
			Order:       RecordID("orders", o.ID),
			Product:     RecordID("products", item.ProductID),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Total:       item.Total,
			Position:    i,
		}
	}

	return rows
}
