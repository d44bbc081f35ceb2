package impl

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	"tradelink/internal/domain/entity"
	domainerrors "tradelink/internal/domain/errors"
	"tradelink/internal/infra/cache"
	"tradelink/internal/store"
	"tradelink/internal/usecase"
)

// moderationService implements the ModerationUsecase interface.
type moderationService struct {
	store    *store.Store
	sessions *cache.SessionCache
	logger   *slog.Logger
	now      func() time.Time
}

// ModerationServiceParams holds dependencies for moderationService,
// injected by Fx.
type ModerationServiceParams struct {
	fx.In

	Store    *store.Store
	Sessions *cache.SessionCache
	Logger   *slog.Logger
}

// NewModerationService is the constructor for moderationService.
func NewModerationService(params ModerationServiceParams) usecase.ModerationUsecase {
	return &moderationService{
		store:    params.Store,
		sessions: params.Sessions,
		logger:   params.Logger,
		now:      time.Now,
	}
}

// ListPendingUsers returns the registrations awaiting review.
func (srv *moderationService) ListPendingUsers(_ context.Context, viewer usecase.Viewer) ([]entity.PendingUser, error) {
	if err := requireAdmin(viewer); err != nil {
		return nil, err
	}

	return srv.store.State().PendingUsers, nil
}

// ApproveUser approves a pending registration, materializing the account.
func (srv *moderationService) ApproveUser(_ context.Context, viewer usecase.Viewer, pendingID uuid.UUID) (entity.User, error) {
	if err := requireAdmin(viewer); err != nil {
		return entity.User{}, err
	}

	newUserID := uuid.New()
	outcome := srv.store.Dispatch(store.ApproveUser{
		Meta:       store.NewMeta(srv.now()),
		PendingID:  pendingID,
		NewUserID:  newUserID,
		ReviewedBy: viewer.UserID,
	})
	if outcome.NotFound {
		return entity.User{}, errors.Wrap(domainerrors.ErrPendingUserNotFound, "approval failed")
	}

	user, ok := srv.store.State().UserByID(newUserID)
	if !ok {
		return entity.User{}, errors.Wrap(domainerrors.ErrInternalError, "approved user missing from state")
	}

	srv.logger.Info("Registration approved",
		slog.Any("pendingID", pendingID), slog.Any("userID", newUserID))

	return user, nil
}

// RejectUser removes a pending registration without creating an account.
func (srv *moderationService) RejectUser(_ context.Context, viewer usecase.Viewer, pendingID uuid.UUID, reason string) error {
	if err := requireAdmin(viewer); err != nil {
		return err
	}

	outcome := srv.store.Dispatch(store.RejectUser{
		Meta:       store.NewMeta(srv.now()),
		PendingID:  pendingID,
		ReviewedBy: viewer.UserID,
		Reason:     reason,
	})
	if outcome.NotFound {
		return errors.Wrap(domainerrors.ErrPendingUserNotFound, "rejection failed")
	}

	srv.logger.Info("Registration rejected", slog.Any("pendingID", pendingID))

	return nil
}

// BulkVerifyUsers sets the verified flag on every listed user.
func (srv *moderationService) BulkVerifyUsers(_ context.Context, viewer usecase.Viewer, userIDs []uuid.UUID) error {
	if err := requireAdmin(viewer); err != nil {
		return err
	}
	if len(userIDs) == 0 {
		return errors.Wrap(domainerrors.ErrValidationFailed, "no users selected")
	}

	srv.store.Dispatch(store.BulkVerifyUsers{Meta: store.NewMeta(srv.now()), UserIDs: userIDs})

	return nil
}

// SuspendUser disables an account and ends its live sessions.
func (srv *moderationService) SuspendUser(_ context.Context, viewer usecase.Viewer, userID uuid.UUID) error {
	if err := requireAdmin(viewer); err != nil {
		return err
	}
	if userID == viewer.UserID {
		return errors.Wrap(domainerrors.ErrValidationFailed, "admins cannot suspend themselves")
	}

	outcome := srv.store.Dispatch(store.SuspendUser{Meta: store.NewMeta(srv.now()), UserID: userID})
	if outcome.NotFound {
		return errors.Wrap(domainerrors.ErrUserNotFound, "suspension failed")
	}

	srv.sessions.DeleteByUser(userID)

	srv.logger.Info("User suspended", slog.Any("userID", userID))

	return nil
}

// ListUsers returns every known account.
func (srv *moderationService) ListUsers(_ context.Context, viewer usecase.Viewer) ([]entity.User, error) {
	if err := requireAdmin(viewer); err != nil {
		return nil, err
	}

	return srv.store.State().Users, nil
}

// ApprovePromotion approves a pending promotion and activates it.
func (srv *moderationService) ApprovePromotion(_ context.Context, viewer usecase.Viewer, promotionID uuid.UUID) (entity.Promotion, error) {
	if err := requireModerator(viewer); err != nil {
		return entity.Promotion{}, err
	}
	if err := srv.requirePendingPromotion(promotionID); err != nil {
		return entity.Promotion{}, err
	}

	srv.store.Dispatch(store.ApprovePromotion{
		Meta:        store.NewMeta(srv.now()),
		PromotionID: promotionID,
		ReviewedBy:  viewer.UserID,
	})

	promotion, _ := promotionByID(srv.store.State(), promotionID)

	return promotion, nil
}

// RejectPromotion rejects a pending promotion.
func (srv *moderationService) RejectPromotion(_ context.Context, viewer usecase.Viewer, promotionID uuid.UUID, reason string) (entity.Promotion, error) {
	if err := requireModerator(viewer); err != nil {
		return entity.Promotion{}, err
	}
	if err := srv.requirePendingPromotion(promotionID); err != nil {
		return entity.Promotion{}, err
	}

	srv.store.Dispatch(store.RejectPromotion{
		Meta:        store.NewMeta(srv.now()),
		PromotionID: promotionID,
		ReviewedBy:  viewer.UserID,
		Reason:      reason,
	})

	promotion, _ := promotionByID(srv.store.State(), promotionID)

	return promotion, nil
}

// ApproveReturn approves a return request and records the granted amount.
func (srv *moderationService) ApproveReturn(_ context.Context, viewer usecase.Viewer, requestID uuid.UUID, input usecase.ApproveReturnInput) (entity.ReturnRequest, error) {
	if err := requireModerator(viewer); err != nil {
		return entity.ReturnRequest{}, err
	}

	request, ok := returnByID(srv.store.State(), requestID)
	if !ok {
		return entity.ReturnRequest{}, errors.Wrap(domainerrors.ErrReturnRequestNotFound, "approval failed")
	}
	if request.Status != entity.ReturnStatusPending {
		return entity.ReturnRequest{}, errors.Wrap(domainerrors.ErrConflict, "return request already reviewed")
	}
	if input.ApprovedAmount <= 0 || input.ApprovedAmount > request.RequestedAmount {
		return entity.ReturnRequest{}, errors.Wrap(domainerrors.ErrValidationFailed,
			"approved amount must be positive and within the requested amount")
	}

	srv.store.Dispatch(store.ApproveReturnRequest{
		Meta:           store.NewMeta(srv.now()),
		RequestID:      requestID,
		ApprovedAmount: input.ApprovedAmount,
		RefundMethod:   input.RefundMethod,
	})

	request, _ = returnByID(srv.store.State(), requestID)

	return request, nil
}

// RejectReturn rejects a return request.
func (srv *moderationService) RejectReturn(_ context.Context, viewer usecase.Viewer, requestID uuid.UUID, reason string) (entity.ReturnRequest, error) {
	if err := requireModerator(viewer); err != nil {
		return entity.ReturnRequest{}, err
	}

	request, ok := returnByID(srv.store.State(), requestID)
	if !ok {
		return entity.ReturnRequest{}, errors.Wrap(domainerrors.ErrReturnRequestNotFound, "rejection failed")
	}
	if request.Status != entity.ReturnStatusPending {
		return entity.ReturnRequest{}, errors.Wrap(domainerrors.ErrConflict, "return request already reviewed")
	}

	srv.store.Dispatch(store.RejectReturnRequest{
		Meta:      store.NewMeta(srv.now()),
		RequestID: requestID,
		Reason:    reason,
	})

	request, _ = returnByID(srv.store.State(), requestID)

	return request, nil
}

// Broadcast fans an announcement out to every known user.
func (srv *moderationService) Broadcast(_ context.Context, viewer usecase.Viewer, input usecase.BroadcastInput) error {
	if err := requireAdmin(viewer); err != nil {
		return err
	}
	if input.Title == "" || input.Message == "" {
		return errors.Wrap(domainerrors.ErrValidationFailed, "announcement title and message are required")
	}

	srv.store.Dispatch(store.BroadcastAnnouncement{
		Meta:     store.NewMeta(srv.now()),
		SenderID: viewer.UserID,
		Title:    input.Title,
		Message:  input.Message,
	})

	srv.logger.Info("Announcement broadcast", slog.String("title", input.Title))

	return nil
}

// GetSettings returns the current platform settings.
func (srv *moderationService) GetSettings(_ context.Context, viewer usecase.Viewer) (entity.PlatformSettings, error) {
	if err := requireAdmin(viewer); err != nil {
		return entity.PlatformSettings{}, err
	}

	return srv.store.State().Settings, nil
}

// UpdateSettings shallow-merges a partial settings record.
func (srv *moderationService) UpdateSettings(_ context.Context, viewer usecase.Viewer, patch entity.PlatformSettingsPatch) (entity.PlatformSettings, error) {
	if err := requireAdmin(viewer); err != nil {
		return entity.PlatformSettings{}, err
	}
	if patch.CommissionRate != nil && (*patch.CommissionRate < 0 || *patch.CommissionRate > 100) {
		return entity.PlatformSettings{}, errors.Wrap(domainerrors.ErrValidationFailed,
			"commission rate must be between 0 and 100 percent")
	}
	if patch.MinimumOrderValue != nil && *patch.MinimumOrderValue < 0 {
		return entity.PlatformSettings{}, errors.Wrap(domainerrors.ErrValidationFailed,
			"minimum order value must not be negative")
	}
	if patch.MaxProductsPerWholesaler != nil && *patch.MaxProductsPerWholesaler < 0 {
		return entity.PlatformSettings{}, errors.Wrap(domainerrors.ErrValidationFailed,
			"product cap must not be negative")
	}

	srv.store.Dispatch(store.UpdatePlatformSettings{Meta: store.NewMeta(srv.now()), Patch: patch})

	return srv.store.State().Settings, nil
}

// ResetSettings restores the default platform settings.
func (srv *moderationService) ResetSettings(_ context.Context, viewer usecase.Viewer) (entity.PlatformSettings, error) {
	if err := requireAdmin(viewer); err != nil {
		return entity.PlatformSettings{}, err
	}

	srv.store.Dispatch(store.ResetPlatformSettings{Meta: store.NewMeta(srv.now())})

	return srv.store.State().Settings, nil
}

// Stats derives the system statistics read-model.
func (srv *moderationService) Stats(_ context.Context, viewer usecase.Viewer) (entity.SystemStats, error) {
	if err := requireAdmin(viewer); err != nil {
		return entity.SystemStats{}, err
	}

	return srv.store.State().Stats(), nil
}

func (srv *moderationService) requirePendingPromotion(promotionID uuid.UUID) error {
	promotion, ok := promotionByID(srv.store.State(), promotionID)
	if !ok {
		return errors.Wrap(domainerrors.ErrPromotionNotFound, "review failed")
	}
	if promotion.Status != entity.PromotionStatusPending {
		return errors.Wrap(domainerrors.ErrConflict, "promotion already reviewed")
	}

	return nil
}

func requireAdmin(viewer usecase.Viewer) error {
	if viewer.Role != entity.RoleAdmin {
		return errors.Wrap(domainerrors.ErrForbidden, "admin role required")
	}

	return nil
}

// requireModerator allows admin and support staff.
func requireModerator(viewer usecase.Viewer) error {
	if viewer.Role != entity.RoleAdmin && viewer.Role != entity.RoleSupport {
		return errors.Wrap(domainerrors.ErrForbidden, "admin or support role required")
	}

	return nil
}

func returnByID(state store.State, id uuid.UUID) (entity.ReturnRequest, bool) {
	for _, r := range state.ReturnRequests {
		if r.ID == id {
			return r, true
		}
	}

	return entity.ReturnRequest{}, false
}
