package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"tradelink/internal/delivery/http/middleware"
	"tradelink/internal/delivery/http/response"
	"tradelink/internal/domain/entity"
	"tradelink/internal/usecase"
)

// ModerationHandler holds dependencies for the admin review handlers.
type ModerationHandler struct {
	uc     usecase.ModerationUsecase
	logger *slog.Logger
}

// NewModerationHandler is the constructor for ModerationHandler, injected by Fx.
func NewModerationHandler(uc usecase.ModerationUsecase, logger *slog.Logger) *ModerationHandler {
	return &ModerationHandler{uc: uc, logger: logger}
}

type rejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type bulkVerifyRequest struct {
	UserIDs []uuid.UUID `json:"user_ids" validate:"required,min=1"`
}

type approveReturnRequest struct {
	ApprovedAmount float64 `json:"approved_amount" validate:"gt=0"`
	RefundMethod   string  `json:"refund_method" validate:"required"`
}

type broadcastRequest struct {
	Title   string `json:"title" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// ListPendingUsers handles the pending registration listing.
func (h *ModerationHandler) ListPendingUsers(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	pending, err := h.uc.ListPendingUsers(c.Request().Context(), viewer)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, pending, "Pending registrations retrieved successfully")
}

// ApproveUser handles approving a pending registration.
func (h *ModerationHandler) ApproveUser(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	pendingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid pending registration id")
	}

	user, err := h.uc.ApproveUser(c.Request().Context(), viewer, pendingID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "Registration approved")
}

// RejectUser handles rejecting a pending registration.
func (h *ModerationHandler) RejectUser(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	pendingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid pending registration id")
	}

	var req rejectRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid rejection input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.RejectUser(c.Request().Context(), viewer, pendingID, req.Reason); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Registration rejected")
}

// BulkVerifyUsers handles verifying a batch of users.
func (h *ModerationHandler) BulkVerifyUsers(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req bulkVerifyRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid bulk verify input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.BulkVerifyUsers(c.Request().Context(), viewer, req.UserIDs); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Users verified")
}

// SuspendUser handles suspending an account.
func (h *ModerationHandler) SuspendUser(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid user id")
	}

	if err := h.uc.SuspendUser(c.Request().Context(), viewer, userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "User suspended")
}

// ListUsers handles the full account listing.
func (h *ModerationHandler) ListUsers(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	users, err := h.uc.ListUsers(c.Request().Context(), viewer)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, users, "Users retrieved successfully")
}

// ApprovePromotion handles approving a pending promotion.
func (h *ModerationHandler) ApprovePromotion(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	promotionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid promotion id")
	}

	promotion, err := h.uc.ApprovePromotion(c.Request().Context(), viewer, promotionID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, promotion, "Promotion approved")
}

// RejectPromotion handles rejecting a pending promotion.
func (h *ModerationHandler) RejectPromotion(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	promotionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid promotion id")
	}

	var req rejectRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid rejection input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	promotion, err := h.uc.RejectPromotion(c.Request().Context(), viewer, promotionID, req.Reason)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, promotion, "Promotion rejected")
}

// ApproveReturn handles approving a return request.
func (h *ModerationHandler) ApproveReturn(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid return request id")
	}

	var req approveReturnRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid approval input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	request, err := h.uc.ApproveReturn(c.Request().Context(), viewer, requestID, usecase.ApproveReturnInput{
		ApprovedAmount: req.ApprovedAmount,
		RefundMethod:   req.RefundMethod,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, request, "Return request approved")
}

// RejectReturn handles rejecting a return request.
func (h *ModerationHandler) RejectReturn(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid return request id")
	}

	var req rejectRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid rejection input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	request, err := h.uc.RejectReturn(c.Request().Context(), viewer, requestID, req.Reason)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, request, "Return request rejected")
}

// Broadcast handles an admin announcement.
func (h *ModerationHandler) Broadcast(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req broadcastRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid announcement input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.Broadcast(c.Request().Context(), viewer, usecase.BroadcastInput{
		Title:   req.Title,
		Message: req.Message,
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Announcement broadcast")
}

// GetSettings handles the settings read.
func (h *ModerationHandler) GetSettings(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	settings, err := h.uc.GetSettings(c.Request().Context(), viewer)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, settings, "Settings retrieved successfully")
}

// UpdateSettings handles a partial settings update.
func (h *ModerationHandler) UpdateSettings(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var patch entity.PlatformSettingsPatch
	if err := c.Bind(&patch); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid settings input")
	}

	settings, err := h.uc.UpdateSettings(c.Request().Context(), viewer, patch)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, settings, "Settings updated successfully")
}

// ResetSettings handles restoring the default settings.
func (h *ModerationHandler) ResetSettings(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	settings, err := h.uc.ResetSettings(c.Request().Context(), viewer)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, settings, "Settings reset to defaults")
}

// Stats handles the system statistics read.
func (h *ModerationHandler) Stats(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	stats, err := h.uc.Stats(c.Request().Context(), viewer)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, stats, "Statistics retrieved successfully")
}
