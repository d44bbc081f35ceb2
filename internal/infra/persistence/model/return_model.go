package model

import (
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"tradelink/internal/domain/entity"
)

// ReturnRequestRow mirrors the 'return_requests' table. Returned items
// live in the 'return_items' child table; aggregate reads join them.
type ReturnRequestRow struct {
	ID              *models.RecordID       `json:"id,omitempty"`
	Order           *models.RecordID       `json:"order"`
	Retailer        *models.RecordID       `json:"retailer"`
	Wholesaler      *models.RecordID       `json:"wholesaler"`
	Reason          string                 `json:"reason"`
	Description     string                 `json:"description"`
	Status          string                 `json:"status"`
	Priority        string                 `json:"priority"`
	RequestedAmount float64                `json:"requested_amount"`
	ApprovedAmount  *float64               `json:"approved_amount,omitempty"`
	Items           []ReturnItemRow        `json:"items,omitempty"`
	Images          []string               `json:"images"`
	RejectionReason string                 `json:"rejection_reason"`
	RefundMethod    string                 `json:"refund_method"`
	TrackingNumber  string                 `json:"tracking_number"`
	CreatedAt       models.CustomDateTime  `json:"created_at"`
	UpdatedAt       models.CustomDateTime  `json:"updated_at"`
	ProcessedAt     *models.CustomDateTime `json:"processed_at,omitempty"`
}

// ReturnItemRow mirrors the 'return_items' child table.
type ReturnItemRow struct {
	ID            *models.RecordID `json:"id,omitempty"`
	ReturnRequest *models.RecordID `json:"return_request,omitempty"`
	Product       *models.RecordID `json:"product"`
	ProductName   string           `json:"product_name"`
	Quantity      int              `json:"quantity"`
	Price         float64          `json:"price"`
	Reason        string           `json:"reason"`
	Position      int              `json:"position"`
}

// ToEntity maps the joined row back to a pure domain entity.
func (r ReturnRequestRow) ToEntity() entity.ReturnRequest {
	items := make([]entity.ReturnItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = entity.ReturnItem{
			ProductID:   RowUUID(item.Product),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Reason:      item.Reason,
		}
	}

	req := entity.ReturnRequest{
		ID:              RowUUID(r.ID),
		OrderID:         RowUUID(r.Order),
		RetailerID:      RowUUID(r.Retailer),
		WholesalerID:    RowUUID(r.Wholesaler),
		Reason:          r.Reason,
		Description:     r.Description,
		Status:          entity.ReturnStatus(r.Status),
		Priority:        entity.Priority(r.Priority),
		RequestedAmount: r.RequestedAmount,
		ApprovedAmount:  r.ApprovedAmount,
		Items:           items,
		Images:          r.Images,
		RejectionReason: r.RejectionReason,
		RefundMethod:    r.RefundMethod,
		TrackingNumber:  r.TrackingNumber,
		CreatedAt:       r.CreatedAt.Time,
		UpdatedAt:       r.UpdatedAt.Time,
	}
	if r.ProcessedAt != nil {
		t := r.ProcessedAt.Time
		req.ProcessedAt = &t
	}

	return req
}

// FromReturnRequest maps a domain entity onto its parent row. Items are
// written separately through FromReturnItems.
func FromReturnRequest(req entity.ReturnRequest) ReturnRequestRow {
	row := ReturnRequestRow{
		ID:              RecordID("return_requests", req.ID),
		Order:           RecordID("orders", req.OrderID),
		Retailer:        RecordID("users", req.RetailerID),
		Wholesaler:      RecordID("users", req.WholesalerID),
		Reason:          req.Reason,
		Description:     req.Description,
		Status:          string(req.Status),
		Priority:        string(req.Priority),
		RequestedAmount: req.RequestedAmount,
		ApprovedAmount:  req.ApprovedAmount,
		Images:          req.Images,
		RejectionReason: req.RejectionReason,
		RefundMethod:    req.RefundMethod,
		TrackingNumber:  req.TrackingNumber,
		CreatedAt:       models.CustomDateTime{Time: req.CreatedAt},
		UpdatedAt:       models.CustomDateTime{Time: req.UpdatedAt},
	}
	if req.ProcessedAt != nil {
		row.ProcessedAt = &models.CustomDateTime{Time: *req.ProcessedAt}
	}

	return row
}

// FromReturnItems maps the returned items onto child rows.
func FromReturnItems(req entity.ReturnRequest) []ReturnItemRow {
	rows := make([]ReturnItemRow, len(req.Items))
	for i, item := range req.Items {
		rows[i] = ReturnItemRow{
			ReturnRequest: RecordID("return_requests", req.ID),
			Product:       RecordID("products", item.ProductID),
			ProductName:   item.ProductName,
			Quantity:      item.Quantity,
			Price:         item.Price,
			Reason:        item.Reason,
			Position:      i,
		}
	}

	return rows
}
