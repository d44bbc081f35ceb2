package usecase

import (
	"context"

	"github.com/google/uuid"

	"tradelink/internal/domain/entity"
)

// NotificationUsecase defines the notification read-model operations.
// Listing, counting and mark-all resolve recipients through the shared
// visibility predicate, so the three can never disagree.
type NotificationUsecase interface {
	List(ctx context.Context, viewer Viewer) []entity.Notification
	UnreadCount(ctx context.Context, viewer Viewer) int
	MarkRead(ctx context.Context, viewer Viewer, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, viewer Viewer) error
	Delete(ctx context.Context, viewer Viewer, notificationID uuid.UUID) error
}
