package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradelink/internal/domain/entity"
)

func testMeta(t *testing.T) Meta {
	t.Helper()

	return NewMeta(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))
}

func testPending(role entity.Role) entity.PendingUser {
	return entity.PendingUser{
		ID:           uuid.New(),
		Name:         "Mei Lin",
		Email:        "mei@freshmart.example",
		Role:         role,
		BusinessName: "FreshMart",
		SubmittedAt:  time.Date(2026, 3, 13, 18, 0, 0, 0, time.UTC),
	}
}

func TestReduce_ApproveUserMaterializesUserAndDropsPending(t *testing.T) {
	pending := testPending(entity.RoleRetailer)
	s := State{PendingUsers: []entity.PendingUser{pending}}

	m := testMeta(t)
	newID := uuid.New()
	next, outcome := Reduce(s, ApproveUser{Meta: m, PendingID: pending.ID, NewUserID: newID, ReviewedBy: uuid.New()})

	require.False(t, outcome.NotFound)
	assert.Empty(t, next.PendingUsers)
	require.Len(t, next.Users, 1)

	user := next.Users[0]
	assert.Equal(t, newID, user.ID)
	assert.Equal(t, pending.Email, user.Email)
	assert.Equal(t, pending.Role, user.Role)
	assert.True(t, user.Verified)
	assert.Equal(t, entity.UserStatusActive, user.Status)
	assert.Equal(t, m.At, user.CreatedAt)

	require.Len(t, outcome.Notifications, 1)
	assert.Equal(t, entity.RecipientUser(newID), outcome.Notifications[0].UserID)

	// Input state must be untouched.
	assert.Len(t, s.PendingUsers, 1)
	assert.Empty(t, s.Users)
}

func TestReduce_ApproveUserUnknownPendingIsNoOp(t *testing.T) {
	s := State{PendingUsers: []entity.PendingUser{testPending(entity.RoleWholesaler)}}

	next, outcome := Reduce(s, ApproveUser{Meta: testMeta(t), PendingID: uuid.New(), NewUserID: uuid.New()})

	assert.True(t, outcome.NotFound)
	assert.Empty(t, outcome.Notifications)
	assert.Equal(t, s, next)
}

func TestReduce_RejectUserRemovesPendingAndNotifiesSystem(t *testing.T) {
	pending := testPending(entity.RoleWholesaler)
	s := State{PendingUsers: []entity.PendingUser{pending}}

	next, outcome := Reduce(s, RejectUser{Meta: testMeta(t), PendingID: pending.ID, Reason: "incomplete documents"})

	require.False(t, outcome.NotFound)
	assert.Empty(t, next.PendingUsers)
	assert.Empty(t, next.Users)
	require.Len(t, outcome.Notifications, 1)
	assert.Equal(t, entity.ChannelSystem, outcome.Notifications[0].UserID)
	assert.Contains(t, outcome.Notifications[0].Message, "incomplete documents")
}

func TestReduce_BulkVerifyUsersIgnoresUnknownIDs(t *testing.T) {
	a := entity.User{ID: uuid.New(), Role: entity.RoleRetailer}
	b := entity.User{ID: uuid.New(), Role: entity.RoleWholesaler}
	s := State{Users: []entity.User{a, b}}

	next, outcome := Reduce(s, BulkVerifyUsers{Meta: testMeta(t), UserIDs: []uuid.UUID{a.ID, uuid.New()}})

	require.False(t, outcome.NotFound)
	assert.True(t, next.Users[0].Verified)
	assert.False(t, next.Users[1].Verified)
	assert.False(t, s.Users[0].Verified)
}

func TestReduce_SuspendUserFlipsStatus(t *testing.T) {
	u := entity.User{ID: uuid.New(), Status: entity.UserStatusActive}
	s := State{Users: []entity.User{u}}

	next, outcome := Reduce(s, SuspendUser{Meta: testMeta(t), UserID: u.ID})

	require.False(t, outcome.NotFound)
	assert.Equal(t, entity.UserStatusSuspended, next.Users[0].Status)

	_, outcome = Reduce(next, SuspendUser{Meta: testMeta(t), UserID: uuid.New()})
	assert.True(t, outcome.NotFound)
}

func TestReduce_AddOrderNotifiesWholesaler(t *testing.T) {
	order := entity.Order{
		ID:           uuid.New(),
		RetailerID:   uuid.New(),
		WholesalerID: uuid.New(),
		Total:        420.50,
		Status:       entity.OrderStatusPending,
	}

	next, outcome := Reduce(NewState(), AddOrder{Meta: testMeta(t), Order: order})

	require.Len(t, next.Orders, 1)
	require.Len(t, outcome.Notifications, 1)
	n := outcome.Notifications[0]
	assert.Equal(t, entity.RecipientUser(order.WholesalerID), n.UserID)
	assert.Equal(t, entity.NotificationTypeOrder, n.Type)
	assert.Equal(t, entity.PriorityHigh, n.Priority)
	assert.Equal(t, order.ID.String(), n.Data["order_id"])
}

func TestReduce_UpdateOrderStatusCancelledNotifiesBothParties(t *testing.T) {
	order := entity.Order{
		ID:           uuid.New(),
		RetailerID:   uuid.New(),
		WholesalerID: uuid.New(),
		Status:       entity.OrderStatusPending,
	}
	s := State{Orders: []entity.Order{order}}

	m := testMeta(t)
	next, outcome := Reduce(s, UpdateOrderStatus{Meta: m, OrderID: order.ID, Status: entity.OrderStatusCancelled})

	assert.Equal(t, entity.OrderStatusCancelled, next.Orders[0].Status)
	assert.Equal(t, m.At, next.Orders[0].UpdatedAt)
	require.Len(t, outcome.Notifications, 2)
	assert.Equal(t, entity.RecipientUser(order.RetailerID), outcome.Notifications[0].UserID)
	assert.Equal(t, entity.RecipientUser(order.WholesalerID), outcome.Notifications[1].UserID)
}

func TestReduce_UpdateOrderStatusAcceptedNotifiesRetailerOnly(t *testing.T) {
	order := entity.Order{ID: uuid.New(), RetailerID: uuid.New(), WholesalerID: uuid.New(), Status: entity.OrderStatusPending}
	s := State{Orders: []entity.Order{order}}

	_, outcome := Reduce(s, UpdateOrderStatus{Meta: testMeta(t), OrderID: order.ID, Status: entity.OrderStatusAccepted})

	require.Len(t, outcome.Notifications, 1)
	assert.Equal(t, entity.RecipientUser(order.RetailerID), outcome.Notifications[0].UserID)
}

func TestReduce_ProductPriceChangeLeavesOrderSnapshotsAlone(t *testing.T) {
	product := entity.Product{ID: uuid.New(), WholesalerID: uuid.New(), Name: "Jasmine Rice 5kg", Price: 25}
	order := entity.Order{
		ID:           uuid.New(),
		RetailerID:   uuid.New(),
		WholesalerID: product.WholesalerID,
		Items: []entity.OrderItem{{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    4,
			Price:       25,
			Total:       100,
		}},
		Total:  100,
		Status: entity.OrderStatusPending,
	}
	s := State{Products: []entity.Product{product}, Orders: []entity.Order{order}}

	repriced := product
	repriced.Price = 40
	next, _ := Reduce(s, UpdateProduct{Meta: testMeta(t), Product: repriced})

	repriced.Price = 60
	next, _ = Reduce(next, SyncUpsertProduct{Meta: testMeta(t), Product: repriced})

	assert.InDelta(t, 60, next.Products[0].Price, 0.001)
	require.Len(t, next.Orders[0].Items, 1)
	item := next.Orders[0].Items[0]
	assert.InDelta(t, 25, item.Price, 0.001, "line price stays the order-time snapshot")
	assert.InDelta(t, 100, item.Total, 0.001)
	assert.Equal(t, product.Name, item.ProductName)
	assert.InDelta(t, 100, next.Orders[0].Total, 0.001)
}

func TestReduce_AddPromotionPendingByDefault(t *testing.T) {
	p := entity.Promotion{ID: uuid.New(), WholesalerID: uuid.New(), Title: "Spring sale", Discount: 15}

	m := testMeta(t)
	next, outcome := Reduce(NewState(), AddPromotion{Meta: m, Promotion: p})

	require.Len(t, next.Promotions, 1)
	got := next.Promotions[0]
	assert.Equal(t, entity.PromotionStatusPending, got.Status)
	assert.False(t, got.Active)
	assert.Nil(t, got.ReviewedAt)
	assert.Equal(t, m.At, got.SubmittedAt)

	require.Len(t, outcome.Notifications, 1)
	assert.Equal(t, entity.ChannelAdmin, outcome.Notifications[0].UserID)
}

func TestReduce_AddPromotionAutoApproved(t *testing.T) {
	s := NewState()
	s.Settings.AutoApprovePromotions = true
	p := entity.Promotion{ID: uuid.New(), WholesalerID: uuid.New(), Title: "Flash deal", Discount: 30}

	m := testMeta(t)
	next, _ := Reduce(s, AddPromotion{Meta: m, Promotion: p})

	got := next.Promotions[0]
	assert.Equal(t, entity.PromotionStatusApproved, got.Status)
	assert.True(t, got.Active)
	require.NotNil(t, got.ReviewedAt)
	assert.Equal(t, m.At, *got.ReviewedAt)
}

func TestReduce_ApprovePromotionActivatesAndClearsRejection(t *testing.T) {
	p := entity.Promotion{
		ID:              uuid.New(),
		WholesalerID:    uuid.New(),
		Title:           "Bulk rice",
		Status:          entity.PromotionStatusPending,
		RejectionReason: "stale",
	}
	s := State{Promotions: []entity.Promotion{p}}

	reviewer := uuid.New()
	next, outcome := Reduce(s, ApprovePromotion{Meta: testMeta(t), PromotionID: p.ID, ReviewedBy: reviewer})

	got := next.Promotions[0]
	assert.Equal(t, entity.PromotionStatusApproved, got.Status)
	assert.True(t, got.Active)
	assert.Empty(t, got.RejectionReason)
	require.NotNil(t, got.ReviewedBy)
	assert.Equal(t, reviewer, *got.ReviewedBy)

	require.Len(t, outcome.Notifications, 1)
	assert.Equal(t, entity.RecipientUser(p.WholesalerID), outcome.Notifications[0].UserID)
}

func TestReduce_RejectPromotionDeactivates(t *testing.T) {
	p := entity.Promotion{ID: uuid.New(), WholesalerID: uuid.New(), Status: entity.PromotionStatusPending}
	s := State{Promotions: []entity.Promotion{p}}

	next, outcome := Reduce(s, RejectPromotion{Meta: testMeta(t), PromotionID: p.ID, Reason: "too aggressive"})

	got := next.Promotions[0]
	assert.Equal(t, entity.PromotionStatusRejected, got.Status)
	assert.False(t, got.Active)
	assert.Equal(t, "too aggressive", got.RejectionReason)
	require.Len(t, outcome.Notifications, 1)
	assert.Contains(t, outcome.Notifications[0].Message, "too aggressive")
}

func TestReduce_UpdatePromotionClampsActiveFlag(t *testing.T) {
	p := entity.Promotion{ID: uuid.New(), Status: entity.PromotionStatusPending}
	s := State{Promotions: []entity.Promotion{p}}

	edited := p
	edited.Active = true // not approved, must be clamped back off

	next, outcome := Reduce(s, UpdatePromotion{Meta: testMeta(t), Promotion: edited})

	require.False(t, outcome.NotFound)
	assert.False(t, next.Promotions[0].Active)
}

func TestReduce_ApproveReturnRequestRecordsAmountAndMethod(t *testing.T) {
	r := entity.ReturnRequest{
		ID:              uuid.New(),
		RetailerID:      uuid.New(),
		Status:          entity.ReturnStatusPending,
		RequestedAmount: 200,
		RejectionReason: "previously rejected",
	}
	s := State{ReturnRequests: []entity.ReturnRequest{r}}

	m := testMeta(t)
	next, outcome := Reduce(s, ApproveReturnRequest{Meta: m, RequestID: r.ID, ApprovedAmount: 150, RefundMethod: "store_credit"})

	got := next.ReturnRequests[0]
	assert.Equal(t, entity.ReturnStatusApproved, got.Status)
	require.NotNil(t, got.ApprovedAmount)
	assert.InDelta(t, 150, *got.ApprovedAmount, 0.001)
	assert.Equal(t, "store_credit", got.RefundMethod)
	assert.Empty(t, got.RejectionReason)
	require.NotNil(t, got.ProcessedAt)
	assert.Equal(t, m.At, *got.ProcessedAt)

	require.Len(t, outcome.Notifications, 1)
	assert.Equal(t, entity.RecipientUser(r.RetailerID), outcome.Notifications[0].UserID)
}

func TestReduce_RejectReturnRequest(t *testing.T) {
	r := entity.ReturnRequest{ID: uuid.New(), RetailerID: uuid.New(), Status: entity.ReturnStatusPending}
	s := State{ReturnRequests: []entity.ReturnRequest{r}}

	next, outcome := Reduce(s, RejectReturnRequest{Meta: testMeta(t), RequestID: r.ID, Reason: "out of window"})

	got := next.ReturnRequests[0]
	assert.Equal(t, entity.ReturnStatusRejected, got.Status)
	assert.Equal(t, "out of window", got.RejectionReason)
	assert.Nil(t, got.ApprovedAmount)
	require.Len(t, outcome.Notifications, 1)
}

func TestReduce_AddSupportTicketEscalatesUrgentPriority(t *testing.T) {
	ticket := entity.SupportTicket{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		UserName: "Mei Lin",
		Subject:  "Payments stuck",
		Priority: entity.PriorityUrgent,
		Status:   entity.TicketStatusOpen,
	}

	_, outcome := Reduce(NewState(), AddSupportTicket{Meta: testMeta(t), Ticket: ticket})

	require.Len(t, outcome.Notifications, 1)
	n := outcome.Notifications[0]
	assert.Equal(t, entity.ChannelSupport, n.UserID)
	assert.Equal(t, entity.PriorityUrgent, n.Priority)
}

func TestReduce_BroadcastCreatesOnePerUser(t *testing.T) {
	users := []entity.User{
		{ID: uuid.New(), Role: entity.RoleRetailer},
		{ID: uuid.New(), Role: entity.RoleWholesaler},
		{ID: uuid.New(), Role: entity.RoleAdmin},
	}
	s := State{Users: users}

	next, outcome := Reduce(s, BroadcastAnnouncement{Meta: testMeta(t), SenderID: users[2].ID, Title: "Holiday hours", Message: "Closed Friday"})

	require.Len(t, outcome.Notifications, 3)
	require.Len(t, next.Notifications, 3)
	seen := map[uuid.UUID]bool{}
	for i, n := range outcome.Notifications {
		assert.Equal(t, entity.RecipientUser(users[i].ID), n.UserID)
		assert.False(t, seen[n.ID], "broadcast IDs must be distinct per recipient")
		seen[n.ID] = true
	}
}

func TestReduce_MarkAllNotificationsReadUsesVisibility(t *testing.T) {
	viewer := uuid.New()
	other := uuid.New()
	m := testMeta(t)
	s := State{Notifications: []entity.Notification{
		{ID: uuid.New(), UserID: entity.RecipientUser(viewer), CreatedAt: m.At},
		{ID: uuid.New(), UserID: entity.RecipientUser(other), CreatedAt: m.At},
		{ID: uuid.New(), UserID: entity.ChannelAdmin, CreatedAt: m.At},
		{ID: uuid.New(), UserID: entity.ChannelAll, CreatedAt: m.At},
	}}

	next, _ := Reduce(s, MarkAllNotificationsRead{Meta: m, UserID: viewer, Role: entity.RoleRetailer})

	assert.True(t, next.Notifications[0].Read)
	assert.False(t, next.Notifications[1].Read, "another user's notification stays unread")
	assert.False(t, next.Notifications[2].Read, "admin channel invisible to a retailer")
	assert.True(t, next.Notifications[3].Read)

	again, _ := Reduce(next, MarkAllNotificationsRead{Meta: testMeta(t), UserID: viewer, Role: entity.RoleRetailer})
	assert.Equal(t, next, again, "marking all read twice equals once")
}

func TestReduce_SettingsMergeAndReset(t *testing.T) {
	s := NewState()
	rate := 7.5
	maintenance := true

	next, _ := Reduce(s, UpdatePlatformSettings{Meta: testMeta(t), Patch: entity.PlatformSettingsPatch{
		CommissionRate:  &rate,
		MaintenanceMode: &maintenance,
	}})

	assert.InDelta(t, 7.5, next.Settings.CommissionRate, 0.001)
	assert.True(t, next.Settings.MaintenanceMode)
	// Untouched fields keep their previous values.
	assert.Equal(t, s.Settings.MinimumOrderValue, next.Settings.MinimumOrderValue)

	reset, _ := Reduce(next, ResetPlatformSettings{Meta: testMeta(t)})
	assert.Equal(t, entity.DefaultPlatformSettings(), reset.Settings)
}

func TestReduce_SyncActionsNeverNotify(t *testing.T) {
	m := testMeta(t)
	user := entity.User{ID: uuid.New()}
	order := entity.Order{ID: uuid.New(), WholesalerID: uuid.New()}
	ticket := entity.SupportTicket{ID: uuid.New(), Priority: entity.PriorityUrgent}

	actions := []Action{
		SyncUpsertUser{Meta: m, User: user},
		SyncRemoveUser{Meta: m, UserID: user.ID},
		SyncUpsertProduct{Meta: m, Product: entity.Product{ID: uuid.New()}},
		SyncUpsertPromotion{Meta: m, Promotion: entity.Promotion{ID: uuid.New()}},
		SyncUpsertSupportTicket{Meta: m, Ticket: ticket},
		SyncReplaceOrders{Meta: m, Orders: []entity.Order{order}},
		SyncReplaceReturnRequests{Meta: m, Requests: []entity.ReturnRequest{{ID: uuid.New()}}},
		SyncSettings{Meta: m, Settings: entity.DefaultPlatformSettings()},
		SyncSnapshot{Meta: m, Users: []entity.User{user}},
		SyncReset{Meta: m},
	}

	s := NewState()
	for _, a := range actions {
		var outcome Outcome
		s, outcome = Reduce(s, a)
		assert.Empty(t, outcome.Notifications, "sync action %s must not notify", ActionName(a))
	}
}

func TestReduce_SyncUpsertIsIdempotent(t *testing.T) {
	m := testMeta(t)
	p := entity.Product{ID: uuid.New(), Name: "Jasmine rice 25kg"}

	s, _ := Reduce(NewState(), SyncUpsertProduct{Meta: m, Product: p})
	s, _ = Reduce(s, SyncUpsertProduct{Meta: m, Product: p})

	require.Len(t, s.Products, 1)

	p.Stock = 12
	s, _ = Reduce(s, SyncUpsertProduct{Meta: m, Product: p})
	require.Len(t, s.Products, 1)
	assert.Equal(t, 12, s.Products[0].Stock)
}

func TestReduce_SyncUpsertPromotionClampsActive(t *testing.T) {
	p := entity.Promotion{ID: uuid.New(), Status: entity.PromotionStatusRejected, Active: true}

	s, _ := Reduce(NewState(), SyncUpsertPromotion{Meta: testMeta(t), Promotion: p})

	assert.False(t, s.Promotions[0].Active)
}

func TestReduce_SyncSnapshotSeedsCollections(t *testing.T) {
	m := testMeta(t)
	settings := entity.DefaultPlatformSettings()
	settings.CommissionRate = 9

	next, outcome := Reduce(NewState(), SyncSnapshot{
		Meta:     m,
		Users:    []entity.User{{ID: uuid.New()}},
		Products: []entity.Product{{ID: uuid.New()}, {ID: uuid.New()}},
		Orders:   []entity.Order{{ID: uuid.New()}},
		Settings: &settings,
	})

	require.False(t, outcome.NotFound)
	assert.Len(t, next.Users, 1)
	assert.Len(t, next.Products, 2)
	assert.Len(t, next.Orders, 1)
	assert.InDelta(t, 9, next.Settings.CommissionRate, 0.001)
}

func TestReduce_SyncSnapshotNilSettingsKeepsCurrent(t *testing.T) {
	s := NewState()
	rate := 12.0
	s, _ = Reduce(s, UpdatePlatformSettings{Meta: testMeta(t), Patch: entity.PlatformSettingsPatch{CommissionRate: &rate}})

	next, _ := Reduce(s, SyncSnapshot{Meta: testMeta(t), Users: []entity.User{{ID: uuid.New()}}})

	assert.InDelta(t, 12, next.Settings.CommissionRate, 0.001)
}

func TestReduce_SyncResetClearsCollectionsKeepsNotifications(t *testing.T) {
	m := testMeta(t)
	s := State{
		Users:         []entity.User{{ID: uuid.New()}},
		Orders:        []entity.Order{{ID: uuid.New()}},
		Notifications: []entity.Notification{{ID: uuid.New()}},
		Settings:      entity.DefaultPlatformSettings(),
	}

	next, _ := Reduce(s, SyncReset{Meta: m})

	assert.Empty(t, next.Users)
	assert.Empty(t, next.Orders)
	assert.Len(t, next.Notifications, 1, "notifications are local-only and survive a reset")
	assert.Equal(t, s.Settings, next.Settings)
}
