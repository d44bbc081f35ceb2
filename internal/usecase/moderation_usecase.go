package usecase

import (
	"context"

	"github.com/google/uuid"

	"tradelink/internal/domain/entity"
)

// ApproveReturnInput carries the approval details of a return request.
type ApproveReturnInput struct {
	ApprovedAmount float64
	RefundMethod   string
}

// BroadcastInput defines an admin announcement fanned out to every user.
type BroadcastInput struct {
	Title   string
	Message string
}

// ModerationUsecase defines the admin review and platform management
// operations. Every method requires the admin role; promotion and return
// review additionally accepts support where noted.
type ModerationUsecase interface {
	ListPendingUsers(ctx context.Context, viewer Viewer) ([]entity.PendingUser, error)
	ApproveUser(ctx context.Context, viewer Viewer, pendingID uuid.UUID) (entity.User, error)
	RejectUser(ctx context.Context, viewer Viewer, pendingID uuid.UUID, reason string) error
	BulkVerifyUsers(ctx context.Context, viewer Viewer, userIDs []uuid.UUID) error
	SuspendUser(ctx context.Context, viewer Viewer, userID uuid.UUID) error
	ListUsers(ctx context.Context, viewer Viewer) ([]entity.User, error)

	ApprovePromotion(ctx context.Context, viewer Viewer, promotionID uuid.UUID) (entity.Promotion, error)
	RejectPromotion(ctx context.Context, viewer Viewer, promotionID uuid.UUID, reason string) (entity.Promotion, error)

	ApproveReturn(ctx context.Context, viewer Viewer, requestID uuid.UUID, input ApproveReturnInput) (entity.ReturnRequest, error)
	RejectReturn(ctx context.Context, viewer Viewer, requestID uuid.UUID, reason string) (entity.ReturnRequest, error)

	Broadcast(ctx context.Context, viewer Viewer, input BroadcastInput) error

	GetSettings(ctx context.Context, viewer Viewer) (entity.PlatformSettings, error)
	UpdateSettings(ctx context.Context, viewer Viewer, patch entity.PlatformSettingsPatch) (entity.PlatformSettings, error)
	ResetSettings(ctx context.Context, viewer Viewer) (entity.PlatformSettings, error)

	Stats(ctx context.Context, viewer Viewer) (entity.SystemStats, error)
}
