package impl

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradelink/internal/domain/entity"
	domainerrors "tradelink/internal/domain/errors"
	"tradelink/internal/infra/cache"
	"tradelink/internal/store"
	"tradelink/internal/usecase"
)

func newModerationServiceForTest(t *testing.T, st *store.Store) (*moderationService, *cache.SessionCache) {
	t.Helper()

	sessions := cache.NewSessionCache(time.Hour, time.Minute)
	t.Cleanup(sessions.Close)

	return &moderationService{
		store:    st,
		sessions: sessions,
		logger:   testLogger(),
		now:      func() time.Time { return testNow },
	}, sessions
}

func adminViewer() usecase.Viewer {
	return usecase.Viewer{UserID: uuid.New(), Role: entity.RoleAdmin}
}

func supportViewer() usecase.Viewer {
	return usecase.Viewer{UserID: uuid.New(), Role: entity.RoleSupport}
}

func TestModerationService_AdminOnlyOperationsRejectOtherRoles(t *testing.T) {
	srv, _ := newModerationServiceForTest(t, seedStore(t))
	ctx := context.Background()

	for _, viewer := range []usecase.Viewer{
		{UserID: uuid.New(), Role: entity.RoleRetailer},
		{UserID: uuid.New(), Role: entity.RoleWholesaler},
		supportViewer(),
	} {
		_, err := srv.ListPendingUsers(ctx, viewer)
		assert.ErrorIs(t, err, domainerrors.ErrForbidden)

		_, err = srv.ApproveUser(ctx, viewer, uuid.New())
		assert.ErrorIs(t, err, domainerrors.ErrForbidden)

		_, err = srv.UpdateSettings(ctx, viewer, entity.PlatformSettingsPatch{})
		assert.ErrorIs(t, err, domainerrors.ErrForbidden)

		_, err = srv.Stats(ctx, viewer)
		assert.ErrorIs(t, err, domainerrors.ErrForbidden)

		err = srv.Broadcast(ctx, viewer, usecase.BroadcastInput{Title: "x", Message: "y"})
		assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	}
}

func TestModerationService_ApproveUserMaterializesAccount(t *testing.T) {
	pending := entity.PendingUser{ID: uuid.New(), Name: "Mei Lin", Email: "mei@freshmart.example", Role: entity.RoleRetailer}
	st := seedStore(t, store.SyncUpsertPendingUser{Meta: store.NewMeta(testNow), Pending: pending})
	srv, _ := newModerationServiceForTest(t, st)

	user, err := srv.ApproveUser(context.Background(), adminViewer(), pending.ID)

	require.NoError(t, err)
	assert.Equal(t, pending.Email, user.Email)
	assert.True(t, user.Verified)
	assert.NotEqual(t, pending.ID, user.ID, "the account gets a fresh ID")
	assert.Empty(t, st.State().PendingUsers)
}

func TestModerationService_ApproveUserUnknownPending(t *testing.T) {
	srv, _ := newModerationServiceForTest(t, seedStore(t))

	_, err := srv.ApproveUser(context.Background(), adminViewer(), uuid.New())

	assert.ErrorIs(t, err, domainerrors.ErrPendingUserNotFound)
}

func TestModerationService_RejectUser(t *testing.T) {
	pending := entity.PendingUser{ID: uuid.New(), Email: "mei@freshmart.example"}
	st := seedStore(t, store.SyncUpsertPendingUser{Meta: store.NewMeta(testNow), Pending: pending})
	srv, _ := newModerationServiceForTest(t, st)

	require.NoError(t, srv.RejectUser(context.Background(), adminViewer(), pending.ID, "incomplete"))
	assert.Empty(t, st.State().PendingUsers)
	assert.Empty(t, st.State().Users)

	err := srv.RejectUser(context.Background(), adminViewer(), pending.ID, "again")
	assert.ErrorIs(t, err, domainerrors.ErrPendingUserNotFound)
}

func TestModerationService_BulkVerifyRequiresSelection(t *testing.T) {
	srv, _ := newModerationServiceForTest(t, seedStore(t))

	err := srv.BulkVerifyUsers(context.Background(), adminViewer(), nil)

	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestModerationService_SuspendUserEndsSessions(t *testing.T) {
	user := activeUser("mei@freshmart.example", entity.RoleRetailer)
	st := seedStore(t, store.SyncUpsertUser{Meta: store.NewMeta(testNow), User: user})
	srv, sessions := newModerationServiceForTest(t, st)

	sessions.Put(cache.Session{UserID: user.ID, RefreshToken: "tok"})

	require.NoError(t, srv.SuspendUser(context.Background(), adminViewer(), user.ID))

	assert.Equal(t, entity.UserStatusSuspended, st.State().Users[0].Status)
	_, ok := sessions.Get("tok")
	assert.False(t, ok)
}

func TestModerationService_SuspendSelfIsRejected(t *testing.T) {
	admin := adminViewer()
	srv, _ := newModerationServiceForTest(t, seedStore(t))

	err := srv.SuspendUser(context.Background(), admin, admin.UserID)

	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestModerationService_PromotionReviewOpenToSupport(t *testing.T) {
	p := entity.Promotion{ID: uuid.New(), WholesalerID: uuid.New(), Status: entity.PromotionStatusPending}
	st := seedStore(t, store.SyncUpsertPromotion{Meta: store.NewMeta(testNow), Promotion: p})
	srv, _ := newModerationServiceForTest(t, st)

	approved, err := srv.ApprovePromotion(context.Background(), supportViewer(), p.ID)

	require.NoError(t, err)
	assert.Equal(t, entity.PromotionStatusApproved, approved.Status)
	assert.True(t, approved.Active)
	require.NotNil(t, approved.ReviewedAt)
}

func TestModerationService_PromotionReviewRejectsDoubleReview(t *testing.T) {
	p := entity.Promotion{ID: uuid.New(), Status: entity.PromotionStatusApproved, Active: true}
	st := seedStore(t, store.SyncUpsertPromotion{Meta: store.NewMeta(testNow), Promotion: p})
	srv, _ := newModerationServiceForTest(t, st)

	_, err := srv.ApprovePromotion(context.Background(), adminViewer(), p.ID)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	_, err = srv.RejectPromotion(context.Background(), adminViewer(), p.ID, "late")
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	_, err = srv.ApprovePromotion(context.Background(), adminViewer(), uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrPromotionNotFound)
}

func TestModerationService_RejectPromotionRecordsReason(t *testing.T) {
	p := entity.Promotion{ID: uuid.New(), WholesalerID: uuid.New(), Status: entity.PromotionStatusPending}
	st := seedStore(t, store.SyncUpsertPromotion{Meta: store.NewMeta(testNow), Promotion: p})
	srv, _ := newModerationServiceForTest(t, st)

	rejected, err := srv.RejectPromotion(context.Background(), adminViewer(), p.ID, "misleading discount")

	require.NoError(t, err)
	assert.Equal(t, entity.PromotionStatusRejected, rejected.Status)
	assert.False(t, rejected.Active)
	assert.Equal(t, "misleading discount", rejected.RejectionReason)
}

func TestModerationService_ApproveReturnValidatesAmount(t *testing.T) {
	r := entity.ReturnRequest{ID: uuid.New(), RetailerID: uuid.New(), Status: entity.ReturnStatusPending, RequestedAmount: 100}
	st := seedStore(t, store.SyncReplaceReturnRequests{Meta: store.NewMeta(testNow), Requests: []entity.ReturnRequest{r}})
	srv, _ := newModerationServiceForTest(t, st)
	ctx := context.Background()

	_, err := srv.ApproveReturn(ctx, supportViewer(), r.ID, usecase.ApproveReturnInput{ApprovedAmount: 0, RefundMethod: "card"})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	_, err = srv.ApproveReturn(ctx, supportViewer(), r.ID, usecase.ApproveReturnInput{ApprovedAmount: 150, RefundMethod: "card"})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed, "amount above the requested amount")

	approved, err := srv.ApproveReturn(ctx, supportViewer(), r.ID, usecase.ApproveReturnInput{ApprovedAmount: 80, RefundMethod: "card"})
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAmount)
	assert.InDelta(t, 80, *approved.ApprovedAmount, 0.001)

	_, err = srv.ApproveReturn(ctx, supportViewer(), r.ID, usecase.ApproveReturnInput{ApprovedAmount: 80, RefundMethod: "card"})
	assert.ErrorIs(t, err, domainerrors.ErrConflict, "already reviewed")
}

func TestModerationService_RejectReturn(t *testing.T) {
	r := entity.ReturnRequest{ID: uuid.New(), Status: entity.ReturnStatusPending, RequestedAmount: 50}
	st := seedStore(t, store.SyncReplaceReturnRequests{Meta: store.NewMeta(testNow), Requests: []entity.ReturnRequest{r}})
	srv, _ := newModerationServiceForTest(t, st)

	rejected, err := srv.RejectReturn(context.Background(), adminViewer(), r.ID, "no evidence")

	require.NoError(t, err)
	assert.Equal(t, entity.ReturnStatusRejected, rejected.Status)
	assert.Equal(t, "no evidence", rejected.RejectionReason)
}

func TestModerationService_BroadcastReachesEveryUser(t *testing.T) {
	users := []entity.User{
		activeUser("a@x.example", entity.RoleRetailer),
		activeUser("b@x.example", entity.RoleWholesaler),
	}
	st := seedStore(t,
		store.SyncUpsertUser{Meta: store.NewMeta(testNow), User: users[0]},
		store.SyncUpsertUser{Meta: store.NewMeta(testNow), User: users[1]},
	)
	srv, _ := newModerationServiceForTest(t, st)

	require.NoError(t, srv.Broadcast(context.Background(), adminViewer(), usecase.BroadcastInput{
		Title:   "Scheduled maintenance",
		Message: "Saturday night",
	}))

	assert.Len(t, st.State().Notifications, 2)

	err := srv.Broadcast(context.Background(), adminViewer(), usecase.BroadcastInput{Title: "", Message: "x"})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestModerationService_SettingsValidationAndReset(t *testing.T) {
	srv, _ := newModerationServiceForTest(t, seedStore(t))
	ctx := context.Background()
	admin := adminViewer()

	bad := 120.0
	_, err := srv.UpdateSettings(ctx, admin, entity.PlatformSettingsPatch{CommissionRate: &bad})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	negative := -1.0
	_, err = srv.UpdateSettings(ctx, admin, entity.PlatformSettingsPatch{MinimumOrderValue: &negative})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	rate := 8.0
	updated, err := srv.UpdateSettings(ctx, admin, entity.PlatformSettingsPatch{CommissionRate: &rate})
	require.NoError(t, err)
	assert.InDelta(t, 8, updated.CommissionRate, 0.001)

	restored, err := srv.ResetSettings(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultPlatformSettings(), restored)
}

func TestModerationService_StatsDeriveFromState(t *testing.T) {
	retailer := activeUser("r@x.example", entity.RoleRetailer)
	wholesaler := activeUser("w@x.example", entity.RoleWholesaler)
	paid := seedOrder(retailer.ID, wholesaler.ID, entity.OrderStatusCompleted)
	paid.PaymentStatus = entity.PaymentStatusPaid
	open := seedOrder(retailer.ID, wholesaler.ID, entity.OrderStatusPending)

	st := seedStore(t,
		store.SyncUpsertUser{Meta: store.NewMeta(testNow), User: retailer},
		store.SyncUpsertUser{Meta: store.NewMeta(testNow), User: wholesaler},
		store.SyncReplaceOrders{Meta: store.NewMeta(testNow), Orders: []entity.Order{paid, open}},
	)
	srv, _ := newModerationServiceForTest(t, st)

	stats, err := srv.Stats(context.Background(), adminViewer())

	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 1, stats.TotalRetailers)
	assert.Equal(t, 1, stats.TotalWholesalers)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.Equal(t, 1, stats.CompletedOrders)
	assert.InDelta(t, paid.Total, stats.TotalRevenue, 0.001)
}
