package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"tradelink/internal/delivery/http/middleware"
	"tradelink/internal/delivery/http/response"
	"tradelink/internal/usecase"
)

// NotificationHandler holds dependencies for notification handlers.
type NotificationHandler struct {
	uc     usecase.NotificationUsecase
	logger *slog.Logger
}

// NewNotificationHandler is the constructor for NotificationHandler, injected by Fx.
func NewNotificationHandler(uc usecase.NotificationUsecase, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{uc: uc, logger: logger}
}

// List handles the notification listing request.
func (h *NotificationHandler) List(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	notifications := h.uc.List(c.Request().Context(), viewer)

	return response.Success(c, http.StatusOK, notifications, "Notifications retrieved successfully")
}

// UnreadCount handles the unread counter request.
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	count := h.uc.UnreadCount(c.Request().Context(), viewer)

	return response.Success(c, http.StatusOK, map[string]int{"unread": count}, "Unread count retrieved successfully")
}

// MarkRead handles marking one notification as read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid notification id")
	}

	if err := h.uc.MarkRead(c.Request().Context(), viewer, notificationID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Notification marked as read")
}

// MarkAllRead handles marking every visible notification as read.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	if err := h.uc.MarkAllRead(c.Request().Context(), viewer); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "All notifications marked as read")
}

// Delete handles removing one notification.
func (h *NotificationHandler) Delete(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid notification id")
	}

	if err := h.uc.Delete(c.Request().Context(), viewer, notificationID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Notification deleted")
}
