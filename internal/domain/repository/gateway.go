// Package repository defines the interfaces for the remote persistence layer.
package repository

import (
	"context"
	"errors"

	"tradelink/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for gateway operations.
var (
	// ErrNotFound is returned when a record does not exist remotely.
	ErrNotFound = errors.New("record not found")
	// ErrGatewayUnavailable is returned when the remote store cannot be reached.
	ErrGatewayUnavailable = errors.New("remote gateway unavailable")
)

// Table names a remotely tracked collection.
type Table string

// Tables tracked by the synchronization layer. OrderItems and ReturnItems
// are child tables: their change events never carry a complete parent
// aggregate and only signal a parent re-fetch.
const (
	TableUsers            Table = "users"
	TablePendingUsers     Table = "pending_users"
	TableProducts         Table = "products"
	TableOrders           Table = "orders"
	TableOrderItems       Table = "order_items"
	TableSupportTickets   Table = "support_tickets"
	TablePromotions       Table = "promotions"
	TableReturnRequests   Table = "return_requests"
	TableReturnItems      Table = "return_items"
	TablePlatformSettings Table = "platform_settings"
)

// IsChildTable reports whether the table holds child rows of an aggregate.
func (t Table) IsChildTable() bool {
	return t == TableOrderItems || t == TableReturnItems
}

// Parent returns the aggregate table a child table belongs to, or the table
// itself when it is not a child table.
func (t Table) Parent() Table {
	switch t {
	case TableOrderItems:
		return TableOrders
	case TableReturnItems:
		return TableReturnRequests
	default:
		return t
	}
}

// ChangeAction is the kind of row-level change carried by a ChangeEvent.
type ChangeAction string

const (
	// ChangeCreate indicates a row was inserted.
	ChangeCreate ChangeAction = "create"
	// ChangeUpdate indicates a row was replaced.
	ChangeUpdate ChangeAction = "update"
	// ChangeDelete indicates a row was removed.
	ChangeDelete ChangeAction = "delete"
)

// ChangeEvent is one row-level change delivered by a table subscription.
// For single-table collections Entity holds the decoded domain record
// (a value of *entity.User, *entity.Product, ...); delete events and
// child-table events may carry only the row ID.
type ChangeEvent struct {
	Table  Table        // The table the change happened on.
	Action ChangeAction // The kind of change.
	ID     uuid.UUID    // The ID of the affected row, zero if undecodable.
	Entity any          // The decoded record, nil for deletes and child rows.
}

// RemoteGateway is the hosted data store consumed by the core. It is a black
// box offering bulk reads, row writes keyed by ID, per-table change-event
// subscriptions and a lightweight liveness probe. Aggregate reads (orders,
// return requests) join the child tables into complete domain records.
type RemoteGateway interface {
	FetchUsers(ctx context.Context) ([]entity.User, error)
	FetchPendingUsers(ctx context.Context) ([]entity.PendingUser, error)
	FetchProducts(ctx context.Context) ([]entity.Product, error)
	FetchOrders(ctx context.Context) ([]entity.Order, error)
	FetchPromotions(ctx context.Context) ([]entity.Promotion, error)
	FetchSupportTickets(ctx context.Context) ([]entity.SupportTicket, error)
	FetchReturnRequests(ctx context.Context) ([]entity.ReturnRequest, error)
	FetchPlatformSettings(ctx context.Context) (*entity.PlatformSettings, error)

	CreateUser(ctx context.Context, user entity.User) error
	UpdateUser(ctx context.Context, user entity.User) error
	CreatePendingUser(ctx context.Context, pending entity.PendingUser) error
	DeletePendingUser(ctx context.Context, id uuid.UUID) error
	CreateProduct(ctx context.Context, product entity.Product) error
	UpdateProduct(ctx context.Context, product entity.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	CreateOrder(ctx context.Context, order entity.Order) error
	UpdateOrder(ctx context.Context, order entity.Order) error
	CreatePromotion(ctx context.Context, promotion entity.Promotion) error
	UpdatePromotion(ctx context.Context, promotion entity.Promotion) error
	DeletePromotion(ctx context.Context, id uuid.UUID) error
	CreateSupportTicket(ctx context.Context, ticket entity.SupportTicket) error
	UpdateSupportTicket(ctx context.Context, ticket entity.SupportTicket) error
	CreateReturnRequest(ctx context.Context, request entity.ReturnRequest) error
	UpdateReturnRequest(ctx context.Context, request entity.ReturnRequest) error
	SavePlatformSettings(ctx context.Context, settings entity.PlatformSettings) error

	// Subscribe opens a long-lived change-event stream for one table. The
	// channel is closed when the subscription ends; the gateway does not
	// resubscribe on its own.
	Subscribe(ctx context.Context, table Table) (<-chan ChangeEvent, error)

	// Ping is a lightweight liveness probe (a count/limit query).
	Ping(ctx context.Context) error

	Close(ctx context.Context) error
}
