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

// SupportHandler holds dependencies for support ticket handlers.
type SupportHandler struct {
	uc     usecase.SupportUsecase
	logger *slog.Logger
}

// NewSupportHandler is the constructor for SupportHandler, injected by Fx.
func NewSupportHandler(uc usecase.SupportUsecase, logger *slog.Logger) *SupportHandler {
	return &SupportHandler{uc: uc, logger: logger}
}

type fileTicketRequest struct {
	Subject     string `json:"subject" validate:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

type updateTicketRequest struct {
	Status     *string    `json:"status"`
	Priority   *string    `json:"priority"`
	AssignedTo *uuid.UUID `json:"assigned_to"`
}

// ListTickets handles the ticket listing request.
func (h *SupportHandler) ListTickets(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	tickets := h.uc.ListTickets(c.Request().Context(), viewer)

	return response.Success(c, http.StatusOK, tickets, "Tickets retrieved successfully")
}

// FileTicket handles filing a new support ticket.
func (h *SupportHandler) FileTicket(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req fileTicketRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid ticket input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	ticket, err := h.uc.FileTicket(c.Request().Context(), viewer, usecase.FileTicketInput{
		Subject:     req.Subject,
		Description: req.Description,
		Priority:    entity.Priority(req.Priority),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, ticket, "Ticket filed successfully")
}

// UpdateTicket handles ticket triage by support staff.
func (h *SupportHandler) UpdateTicket(c echo.Context) error {
	viewer, ok := middleware.ViewerFromContext(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid ticket id")
	}

	var req updateTicketRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid ticket input")
	}

	input := usecase.UpdateTicketInput{AssignedTo: req.AssignedTo}
	if req.Status != nil {
		status := entity.TicketStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := entity.Priority(*req.Priority)
		input.Priority = &priority
	}

	ticket, err := h.uc.UpdateTicket(c.Request().Context(), viewer, ticketID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, ticket, "Ticket updated successfully")
}
