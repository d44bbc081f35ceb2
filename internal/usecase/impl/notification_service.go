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
	"tradelink/internal/store"
	"tradelink/internal/usecase"
)

// notificationService implements the NotificationUsecase interface.
type notificationService struct {
	store  *store.Store
	logger *slog.Logger
	now    func() time.Time
}

// NotificationServiceParams holds dependencies for notificationService,
// injected by Fx.
type NotificationServiceParams struct {
	fx.In

	Store  *store.Store
	Logger *slog.Logger
}

// NewNotificationService is the constructor for notificationService.
func NewNotificationService(params NotificationServiceParams) usecase.NotificationUsecase {
	return &notificationService{
		store:  params.Store,
		logger: params.Logger,
		now:    time.Now,
	}
}

// List returns the notifications visible to the viewer, sorted by priority
// then recency.
func (srv *notificationService) List(_ context.Context, viewer usecase.Viewer) []entity.Notification {
	return srv.store.State().VisibleNotifications(viewer.UserID, viewer.Role)
}

// UnreadCount counts the viewer's unread notifications.
func (srv *notificationService) UnreadCount(_ context.Context, viewer usecase.Viewer) int {
	return srv.store.State().UnreadNotificationCount(viewer.UserID, viewer.Role)
}

// MarkRead flips one notification's read flag. A notification the viewer
// cannot see reads as absent.
func (srv *notificationService) MarkRead(_ context.Context, viewer usecase.Viewer, notificationID uuid.UUID) error {
	if !srv.visible(viewer, notificationID) {
		return errors.Wrap(domainerrors.ErrNotificationNotFound, "mark read failed")
	}

	srv.store.Dispatch(store.MarkNotificationRead{
		Meta:           store.NewMeta(srv.now()),
		NotificationID: notificationID,
	})

	return nil
}

// MarkAllRead flips every unread notification visible to the viewer.
func (srv *notificationService) MarkAllRead(_ context.Context, viewer usecase.Viewer) error {
	srv.store.Dispatch(store.MarkAllNotificationsRead{
		Meta:   store.NewMeta(srv.now()),
		UserID: viewer.UserID,
		Role:   viewer.Role,
	})

	return nil
}

// Delete removes one notification. Deletion is global, so only the direct
// recipient may delete a personally addressed notification, and only admins
// may delete channel-addressed ones.
func (srv *notificationService) Delete(_ context.Context, viewer usecase.Viewer, notificationID uuid.UUID) error {
	n, ok := srv.find(notificationID)
	if !ok || !n.VisibleTo(viewer.UserID, viewer.Role) {
		return errors.Wrap(domainerrors.ErrNotificationNotFound, "delete failed")
	}
	if n.UserID != entity.RecipientUser(viewer.UserID) && viewer.Role != entity.RoleAdmin {
		return errors.Wrap(domainerrors.ErrForbidden, "channel notifications are deleted by admins")
	}

	srv.store.Dispatch(store.DeleteNotification{
		Meta:           store.NewMeta(srv.now()),
		NotificationID: notificationID,
	})

	return nil
}

// visible reports whether the notification exists and the viewer may see it.
func (srv *notificationService) visible(viewer usecase.Viewer, notificationID uuid.UUID) bool {
	n, ok := srv.find(notificationID)

	return ok && n.VisibleTo(viewer.UserID, viewer.Role)
}

func (srv *notificationService) find(notificationID uuid.UUID) (entity.Notification, bool) {
	for _, n := range srv.store.State().Notifications {
		if n.ID == notificationID {
			return n, true
		}
	}

	return entity.Notification{}, false
}
