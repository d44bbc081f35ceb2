package store

import (
	"time"

	"tradelink/internal/domain/entity"

	"github.com/google/uuid"
)

// Action is the closed set of state transitions the reducer understands.
// Every variant embeds Meta, which carries the event identity and timestamp
// so the reducer itself never reads the clock. The marker method keeps the
// set sealed to this package's variants.
type Action interface {
	actionMeta() Meta
}

// Meta is the common identity of one dispatched action. EventID seeds the
// deterministic notification IDs; At is the timestamp every record created
// by the transition receives.
type Meta struct {
	EventID uuid.UUID
	At      time.Time
}

// NewMeta builds action metadata for an event happening at now.
func NewMeta(now time.Time) Meta {
	return Meta{EventID: uuid.New(), At: now}
}

func (m Meta) actionMeta() Meta { return m }

// --- user / registration actions ---

// AddPendingUser records a new self-registration awaiting admin review.
type AddPendingUser struct {
	Meta
	Pending entity.PendingUser
}

// ApproveUser approves a pending registration: atomically materializes a new
// User under NewUserID and removes the pending record.
type ApproveUser struct {
	Meta
	PendingID  uuid.UUID
	NewUserID  uuid.UUID
	ReviewedBy uuid.UUID
}

// RejectUser removes a pending registration without creating a user.
type RejectUser struct {
	Meta
	PendingID  uuid.UUID
	ReviewedBy uuid.UUID
	Reason     string
}

// UpdateUser replaces a user record by id.
type UpdateUser struct {
	Meta
	User entity.User
}

// SuspendUser flips one user to the suspended status.
type SuspendUser struct {
	Meta
	UserID uuid.UUID
}

// BulkVerifyUsers sets the verified flag on every listed user; ids without a
// matching user are ignored.
type BulkVerifyUsers struct {
	Meta
	UserIDs []uuid.UUID
}

// --- product actions ---

// AddProduct lists a new product.
type AddProduct struct {
	Meta
	Product entity.Product
}

// UpdateProduct replaces a product record by id.
type UpdateProduct struct {
	Meta
	Product entity.Product
}

// DeleteProduct removes a product from the catalog.
type DeleteProduct struct {
	Meta
	ProductID uuid.UUID
}

// --- order actions ---

// AddOrder records a new order placed by a retailer.
type AddOrder struct {
	Meta
	Order entity.Order
}

// UpdateOrderStatus advances an order's fulfillment status.
type UpdateOrderStatus struct {
	Meta
	OrderID uuid.UUID
	Status  entity.OrderStatus
}

// UpdateOrderPayment records the outcome of a payment flow.
type UpdateOrderPayment struct {
	Meta
	OrderID       uuid.UUID
	PaymentStatus entity.PaymentStatus
}

// --- promotion actions ---

// AddPromotion submits a promotion for moderation. When the platform's
// auto-approve setting is on, the promotion is approved and activated in the
// same transition.
type AddPromotion struct {
	Meta
	Promotion entity.Promotion
}

// ApprovePromotion approves a pending promotion and activates it.
type ApprovePromotion struct {
	Meta
	PromotionID uuid.UUID
	ReviewedBy  uuid.UUID
}

// RejectPromotion rejects a pending promotion.
type RejectPromotion struct {
	Meta
	PromotionID uuid.UUID
	ReviewedBy  uuid.UUID
	Reason      string
}

// UpdatePromotion replaces a promotion record by id. The reducer re-clamps
// the Active flag so it can never be true without approved status.
type UpdatePromotion struct {
	Meta
	Promotion entity.Promotion
}

// DeletePromotion removes a promotion.
type DeletePromotion struct {
	Meta
	PromotionID uuid.UUID
}

// --- support ticket actions ---

// AddSupportTicket files a new support ticket.
type AddSupportTicket struct {
	Meta
	Ticket entity.SupportTicket
}

// UpdateSupportTicket replaces a ticket record by id.
type UpdateSupportTicket struct {
	Meta
	Ticket entity.SupportTicket
}

// --- return request actions ---

// AddReturnRequest files a new return request.
type AddReturnRequest struct {
	Meta
	Request entity.ReturnRequest
}

// ApproveReturnRequest approves a return and records the granted amount.
type ApproveReturnRequest struct {
	Meta
	RequestID      uuid.UUID
	ApprovedAmount float64
	RefundMethod   string
}

// RejectReturnRequest rejects a return request.
type RejectReturnRequest struct {
	Meta
	RequestID uuid.UUID
	Reason    string
}

// UpdateReturnRequest replaces a return request record by id.
type UpdateReturnRequest struct {
	Meta
	Request entity.ReturnRequest
}

// --- notification actions ---

// BroadcastAnnouncement creates one notification per known user. This is the
// only way a notification is created outside a domain event.
type BroadcastAnnouncement struct {
	Meta
	SenderID uuid.UUID
	Title    string
	Message  string
}

// MarkNotificationRead flips one notification's read flag.
type MarkNotificationRead struct {
	Meta
	NotificationID uuid.UUID
}

// MarkAllNotificationsRead flips every unread notification visible to the
// viewer, resolved through the same predicate used for listing.
type MarkAllNotificationsRead struct {
	Meta
	UserID uuid.UUID
	Role   entity.Role
}

// DeleteNotification removes one notification by id.
type DeleteNotification struct {
	Meta
	NotificationID uuid.UUID
}

// --- platform settings actions ---

// UpdatePlatformSettings shallow-merges a partial record into the settings.
type UpdatePlatformSettings struct {
	Meta
	Patch entity.PlatformSettingsPatch
}

// ResetPlatformSettings restores the default settings wholesale.
type ResetPlatformSettings struct {
	Meta
}

// --- synchronization actions ---
//
// The sync family mirrors remote change events into local collections. These
// transitions never synthesize notifications: a remote echo of a local write
// must not notify twice, and a change observed from another client already
// carries its notifications through the notifications of that client's
// dispatch, persisted or not, per the convergence rules.

// SyncUpsertUser inserts or replaces a user from a remote change event.
type SyncUpsertUser struct {
	Meta
	User entity.User
}

// SyncRemoveUser removes a user from a remote delete event.
type SyncRemoveUser struct {
	Meta
	UserID uuid.UUID
}

// SyncUpsertPendingUser inserts or replaces a pending registration.
type SyncUpsertPendingUser struct {
	Meta
	Pending entity.PendingUser
}

// SyncRemovePendingUser removes a pending registration.
type SyncRemovePendingUser struct {
	Meta
	PendingID uuid.UUID
}

// SyncUpsertProduct inserts or replaces a product.
type SyncUpsertProduct struct {
	Meta
	Product entity.Product
}

// SyncRemoveProduct removes a product.
type SyncRemoveProduct struct {
	Meta
	ProductID uuid.UUID
}

// SyncUpsertPromotion inserts or replaces a promotion.
type SyncUpsertPromotion struct {
	Meta
	Promotion entity.Promotion
}

// SyncRemovePromotion removes a promotion.
type SyncRemovePromotion struct {
	Meta
	PromotionID uuid.UUID
}

// SyncUpsertSupportTicket inserts or replaces a support ticket.
type SyncUpsertSupportTicket struct {
	Meta
	Ticket entity.SupportTicket
}

// SyncRemoveSupportTicket removes a support ticket.
type SyncRemoveSupportTicket struct {
	Meta
	TicketID uuid.UUID
}

// SyncReplaceOrders replaces the whole order collection after a parent
// re-fetch triggered by an order or order-item change event.
type SyncReplaceOrders struct {
	Meta
	Orders []entity.Order
}

// SyncReplaceReturnRequests replaces the whole return request collection
// after a parent re-fetch.
type SyncReplaceReturnRequests struct {
	Meta
	Requests []entity.ReturnRequest
}

// SyncSettings replaces the platform settings from the remote record.
type SyncSettings struct {
	Meta
	Settings entity.PlatformSettings
}

// SyncSnapshot seeds every externally tracked collection from the initial
// bulk fetch. Settings is nil when the remote store has no settings row yet.
type SyncSnapshot struct {
	Meta
	Users          []entity.User
	PendingUsers   []entity.PendingUser
	Products       []entity.Product
	Orders         []entity.Order
	Promotions     []entity.Promotion
	SupportTickets []entity.SupportTicket
	ReturnRequests []entity.ReturnRequest
	Settings       *entity.PlatformSettings
}

// SyncReset empties every externally tracked collection. Issued only on a
// hard gateway error, when stale data must not be presented as authoritative.
type SyncReset struct {
	Meta
}
