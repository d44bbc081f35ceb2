package surreal

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	surrealdb "github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"tradelink/internal/domain/entity"
	"tradelink/internal/domain/repository"
	"tradelink/internal/infra/persistence/model"
)

// fetchOrdersQuery joins the order_items child rows into each order.
const fetchOrdersQuery = `
	SELECT *,
		(SELECT * FROM order_items WHERE order = $parent.id ORDER BY position) AS items
	FROM orders
`

// fetchReturnsQuery joins the return_items child rows into each request.
const fetchReturnsQuery = `
	SELECT *,
		(SELECT * FROM return_items WHERE return_request = $parent.id ORDER BY position) AS items
	FROM return_requests
`

// Gateway implements repository.RemoteGateway on a SurrealDB connection.
type Gateway struct {
	db     *surrealdb.DB
	logger *slog.Logger

	mu    sync.Mutex
	lives []string // live query IDs to kill on Close
}

var _ repository.RemoteGateway = (*Gateway)(nil)

// NewGateway wraps an authenticated SurrealDB connection.
func NewGateway(db *surrealdb.DB, logger *slog.Logger) *Gateway {
	return &Gateway{db: db, logger: logger}
}

func (g *Gateway) FetchUsers(ctx context.Context) ([]entity.User, error) {
	rows, err := surrealdb.Select[[]model.UserRow](ctx, g.db, "users")
	if err != nil {
		return nil, errors.Wrap(err, "fetch users")
	}

	return mapRows(*rows, model.UserRow.ToEntity), nil
}

func (g *Gateway) FetchPendingUsers(ctx context.Context) ([]entity.PendingUser, error) {
	rows, err := surrealdb.Select[[]model.PendingUserRow](ctx, g.db, "pending_users")
	if err != nil {
		return nil, errors.Wrap(err, "fetch pending users")
	}

	return mapRows(*rows, model.PendingUserRow.ToEntity), nil
}

func (g *Gateway) FetchProducts(ctx context.Context) ([]entity.Product, error) {
	rows, err := surrealdb.Select[[]model.ProductRow](ctx, g.db, "products")
	if err != nil {
		return nil, errors.Wrap(err, "fetch products")
	}

	return mapRows(*rows, model.ProductRow.ToEntity), nil
}

func (g *Gateway) FetchOrders(ctx context.Context) ([]entity.Order, error) {
	rows, err := queryRows[model.OrderRow](ctx, g.db, fetchOrdersQuery)
	if err != nil {
		return nil, errors.Wrap(err, "fetch orders")
	}

	return mapRows(rows, model.OrderRow.ToEntity), nil
}

func (g *Gateway) FetchPromotions(ctx context.Context) ([]entity.Promotion, error) {
	rows, err := surrealdb.Select[[]model.PromotionRow](ctx, g.db, "promotions")
	if err != nil {
		return nil, errors.Wrap(err, "fetch promotions")
	}

	return mapRows(*rows, model.PromotionRow.ToEntity), nil
}

func (g *Gateway) FetchSupportTickets(ctx context.Context) ([]entity.SupportTicket, error) {
	rows, err := surrealdb.Select[[]model.SupportTicketRow](ctx, g.db, "support_tickets")
	if err != nil {
		return nil, errors.Wrap(err, "fetch support tickets")
	}

	return mapRows(*rows, model.SupportTicketRow.ToEntity), nil
}

func (g *Gateway) FetchReturnRequests(ctx context.Context) ([]entity.ReturnRequest, error) {
	rows, err := queryRows[model.ReturnRequestRow](ctx, g.db, fetchReturnsQuery)
	if err != nil {
		return nil, errors.Wrap(err, "fetch return requests")
	}

	return mapRows(rows, model.ReturnRequestRow.ToEntity), nil
}

// FetchPlatformSettings returns nil without error when no settings row
// exists yet; the store keeps its defaults in that case.
func (g *Gateway) FetchPlatformSettings(ctx context.Context) (*entity.PlatformSettings, error) {
	rows, err := surrealdb.Select[[]model.PlatformSettingsRow](ctx, g.db, "platform_settings")
	if err != nil {
		return nil, errors.Wrap(err, "fetch platform settings")
	}
	if len(*rows) == 0 {
		return nil, nil
	}

	settings := (*rows)[0].ToEntity()

	return &settings, nil
}

func (g *Gateway) CreateUser(ctx context.Context, user entity.User) error {
	row := model.FromUser(user)
	if _, err := surrealdb.Create[struct{}](ctx, g.db, "users", row); err != nil {
		return errors.Wrap(err, "create user")
	}

	return nil
}

func (g *Gateway) UpdateUser(ctx context.Context, user entity.User) error {
	row := model.FromUser(user)
	if _, err := surrealdb.Update[struct{}](ctx, g.db, *row.ID, row); err != nil {
		return errors.Wrap(err, "update user")
	}

	return nil
}

func (g *Gateway) CreatePendingUser(ctx context.Context, pending entity.PendingUser) error {
	row := model.FromPendingUser(pending)
	if _, err := surrealdb.Create[struct{}](ctx, g.db, "pending_users", row); err != nil {
		return errors.Wrap(err, "create pending user")
	}

	return nil
}

func (g *Gateway) DeletePendingUser(ctx context.Context, id uuid.UUID) error {
	rid := models.NewRecordID("pending_users", id.String())
	if _, err := surrealdb.Delete[struct{}](ctx, g.db, rid); err != nil {
		return errors.Wrap(err, "delete pending user")
	}

	return nil
}

func (g *Gateway) CreateProduct(ctx context.Context, product entity.Product) error {
	row := model.FromProduct(product)
	if _, err := surrealdb.Create[struct{}](ctx, g.db, "products", row); err != nil {
		return errors.Wrap(err, "create product")
	}

	return nil
}

func (g *Gateway) UpdateProduct(ctx context.Context, product entity.Product) error {
	row := model.FromProduct(product)
	if _, err := surrealdb.Update[struct{}](ctx, g.db, *row.ID, row); err != nil {
		return errors.Wrap(err, "update product")
	}

	return nil
}

func (g *Gateway) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	rid := models.NewRecordID("products", id.String())
	if _, err := surrealdb.Delete[struct{}](ctx, g.db, rid); err != nil {
		return errors.Wrap(err, "delete product")
	}

	return nil
}

// CreateOrder writes the parent row first so child rows never reference a
// missing order.
func (g *Gateway) CreateOrder(ctx context.Context, order entity.Order) error {
	row := model.FromOrder(order)
	if _, err := surrealdb.Create[struct{}](ctx, g.db, "orders", row); err != nil {
		return errors.Wrap(err, "create order")
	}

	for _, item := range model.FromOrderItems(order) {
		if _, err := surrealdb.Create[struct{}](ctx, g.db, "order_items", item); err != nil {
			return errors.Wrap(err, "create order item")
		}
	}

	return nil
}

// UpdateOrder rewrites the parent row and replaces the child rows. Items
// are immutable snapshots, so the replacement is idempotent.
func (g *Gateway) UpdateOrder(ctx context.Context, order entity.Order) error {
	row := model.FromOrder(order)
	if _, err := surrealdb.Update[struct{}](ctx, g.db, *row.ID, row); err != nil {
		return errors.Wrap(err, "update order")
	}

	if _, err := surrealdb.Query[any](ctx, g.db,
		"DELETE order_items WHERE order = $order",
		map[string]any{"order": *row.ID},
	); err != nil {
		return errors.Wrap(err, "clear order items")
	}
	for _, item := range model.FromOrderItems(order) {
		if _, err := surrealdb.Create[struct{}](ctx, g.db, "order_items", item); err != nil {
			return errors.Wrap(err, "create order item")
		}
	}

	return nil
}

func (g *Gateway) CreatePromotion(ctx context.Context, promotion entity.Promotion) error {
	row := model.FromPromotion(promotion)
	if _, err := surrealdb.Create[struct{}](ctx, g.db, "promotions", row); err != nil {
		return errors.Wrap(err, "create promotion")
	}

	return nil
}

func (g *Gateway) UpdatePromotion(ctx context.Context, promotion entity.Promotion) error {
	row := model.FromPromotion(promotion)
	if _, err := surrealdb.Update[struct{}](ctx, g.db, *row.ID, row); err != nil {
		return errors.Wrap(err, "update promotion")
	}

	return nil
}

func (g *Gateway) DeletePromotion(ctx context.Context, id uuid.UUID) error {
	rid := models.NewRecordID("promotions", id.String())
	if _, err := surrealdb.Delete[struct{}](ctx, g.db, rid); err != nil {
		return errors.Wrap(err, "delete promotion")
	}

	return nil
}

func (g *Gateway) CreateSupportTicket(ctx context.Context, ticket entity.SupportTicket) error {
	row := model.FromSupportTicket(ticket)
	if _, err := surrealdb.Create[struct{}](ctx, g.db, "support_tickets", row); err != nil {
		return errors.Wrap(err, "create support ticket")
	}

	return nil
}

func (g *Gateway) UpdateSupportTicket(ctx context.Context, ticket entity.SupportTicket) error {
	row := model.FromSupportTicket(ticket)
	if _, err := surrealdb.Update[struct{}](ctx, g.db, *row.ID, row); err != nil {
		return errors.Wrap(err, "update support ticket")
	}

	return nil
}

func (g *Gateway) CreateReturnRequest(ctx context.Context, request entity.ReturnRequest) error {
	row := model.FromReturnRequest(request)
	if _, err := surrealdb.Create[struct{}](ctx, g.db, "return_requests", row); err != nil {
		return errors.Wrap(err, "create return request")
	}

	for _, item := range model.FromReturnItems(request) {
		if _, err := surrealdb.Create[struct{}](ctx, g.db, "return_items", item); err != nil {
			return errors.Wrap(err, "create return item")
		}
	}

	return nil
}

func (g *Gateway) UpdateReturnRequest(ctx context.Context, request entity.ReturnRequest) error {
	row := model.FromReturnRequest(request)
	if _, err := surrealdb.Update[struct{}](ctx, g.db, *row.ID, row); err != nil {
		return errors.Wrap(err, "update return request")
	}

	if _, err := surrealdb.Query[any](ctx, g.db,
		"DELETE return_items WHERE return_request = $request",
		map[string]any{"request": *row.ID},
	); err != nil {
		return errors.Wrap(err, "clear return items")
	}
	for _, item := range model.FromReturnItems(request) {
		if _, err := surrealdb.Create[struct{}](ctx, g.db, "return_items", item); err != nil {
			return errors.Wrap(err, "create return item")
		}
	}

	return nil
}

func (g *Gateway) SavePlatformSettings(ctx context.Context, settings entity.PlatformSettings) error {
	row := model.FromPlatformSettings(settings)
	if _, err := surrealdb.Upsert[struct{}](ctx, g.db, model.SettingsRecordID(), row); err != nil {
		return errors.Wrap(err, "save platform settings")
	}

	return nil
}

// Subscribe opens a live query on the table and translates its
// notifications into change events. The returned channel closes when the
// live query ends; resubscription is the caller's policy.
func (g *Gateway) Subscribe(ctx context.Context, table repository.Table) (<-chan repository.ChangeEvent, error) {
	live, err := surrealdb.Live(ctx, g.db, models.Table(table), false)
	if err != nil {
		return nil, errors.Wrapf(err, "live query on %s", table)
	}
	liveID := live.String()

	notifications, err := g.db.LiveNotifications(liveID)
	if err != nil {
		return nil, errors.Wrapf(err, "live notifications on %s", table)
	}

	g.mu.Lock()
	g.lives = append(g.lives, liveID)
	g.mu.Unlock()

	out := make(chan repository.ChangeEvent)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case notification, open := <-notifications:
				if !open {
					return
				}
				event, ok := g.translate(table, notification)
				if !ok {
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Ping is a lightweight liveness probe.
func (g *Gateway) Ping(ctx context.Context) error {
	if _, err := surrealdb.Query[int](ctx, g.db, "RETURN 1", nil); err != nil {
		return errors.Wrap(err, "gateway ping")
	}

	return nil
}

// Close kills the live queries and closes the connection.
func (g *Gateway) Close(ctx context.Context) error {
	g.mu.Lock()
	lives := g.lives
	g.lives = nil
	g.mu.Unlock()

	for _, liveID := range lives {
		if err := surrealdb.Kill(ctx, g.db, liveID); err != nil {
			g.logger.Warn("failed to kill live query", slog.String("id", liveID), slog.Any("error", err))
		}
	}

	return g.db.Close(ctx)
}

// translate maps one live notification onto a change event. Undecodable
// records yield delete-style events with an ID only; fully unusable
// payloads are dropped.
func (g *Gateway) translate(table repository.Table, notification connection.Notification) (repository.ChangeEvent, bool) {
	record, ok := notification.Result.(map[string]any)
	if !ok {
		g.logger.Warn("unexpected live payload type", slog.String("table", string(table)))

		return repository.ChangeEvent{}, false
	}

	var action repository.ChangeAction
	switch notification.Action {
	case connection.CreateAction:
		action = repository.ChangeCreate
	case connection.UpdateAction:
		action = repository.ChangeUpdate
	case connection.DeleteAction:
		action = repository.ChangeDelete
	default:
		return repository.ChangeEvent{}, false
	}

	event := repository.ChangeEvent{Table: table, Action: action, ID: recordUUID(record)}

	// Child tables and deletes only signal; no record decode needed.
	if table.IsChildTable() || action == repository.ChangeDelete {
		return event, true
	}

	decoded, err := decodeEntity(table, record)
	if err != nil {
		g.logger.Warn("failed to decode live record",
			slog.String("table", string(table)), slog.Any("error", err))
	}
	event.Entity = decoded

	return event, true
}

// decodeEntity decodes the live record of a single-table collection into
// its domain entity.
func decodeEntity(table repository.Table, record map[string]any) (any, error) {
	switch table {
	case repository.TableUsers:
		row, err := model.DecodeRow[model.UserRow](record)
		if err != nil {
			return nil, err
		}
		e := row.ToEntity()

		return &e, nil

	case repository.TablePendingUsers:
		row, err := model.DecodeRow[model.PendingUserRow](record)
		if err != nil {
			return nil, err
		}
		e := row.ToEntity()

		return &e, nil

	case repository.TableProducts:
		row, err := model.DecodeRow[model.ProductRow](record)
		if err != nil {
			return nil, err
		}
		e := row.ToEntity()

		return &e, nil

	case repository.TablePromotions:
		row, err := model.DecodeRow[model.PromotionRow](record)
		if err != nil {
			return nil, err
		}
		e := row.ToEntity()

		return &e, nil

	case repository.TableSupportTickets:
		row, err := model.DecodeRow[model.SupportTicketRow](record)
		if err != nil {
			return nil, err
		}
		e := row.ToEntity()

		return &e, nil

	case repository.TablePlatformSettings:
		row, err := model.DecodeRow[model.PlatformSettingsRow](record)
		if err != nil {
			return nil, err
		}
		e := row.ToEntity()

		return &e, nil

	default:
		return nil, nil
	}
}

// recordUUID pulls the entity UUID out of the live record's id field.
func recordUUID(record map[string]any) uuid.UUID {
	rid, ok := record["id"].(models.RecordID)
	if !ok {
		return uuid.Nil
	}

	return model.RowUUID(&rid)
}

// queryRows runs a query whose first statement returns a row list.
func queryRows[T any](ctx context.Context, db *surrealdb.DB, query string) ([]T, error) {
	results, err := surrealdb.Query[[]T](ctx, db, query, nil)
	if err != nil {
		return nil, err
	}
	if len(*results) == 0 {
		return nil, nil
	}

	return (*results)[0].Result, nil
}

func mapRows[R any, E any](rows []R, toEntity func(R) E) []E {
	out := make([]E, len(rows))
	for i, row := range rows {
		out[i] = toEntity(row)
	}

	return out
}
