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

// supportService implements the SupportUsecase interface.
type supportService struct {
	store  *store.Store
	logger *slog.Logger
	now    func() time.Time
}

// SupportServiceParams holds dependencies for supportService, injected by Fx.
type SupportServiceParams struct {
	fx.In

	Store  *store.Store
	Logger *slog.Logger
}

// NewSupportService is the constructor for supportService.
func NewSupportService(params SupportServiceParams) usecase.SupportUsecase {
	return &supportService{
		store:  params.Store,
		logger: params.Logger,
		now:    time.Now,
	}
}

// ListTickets returns the viewer's own tickets, or every ticket for support
// and admin users.
func (srv *supportService) ListTickets(_ context.Context, viewer usecase.Viewer) []entity.SupportTicket {
	tickets := srv.store.State().SupportTickets

	if viewer.Role == entity.RoleAdmin || viewer.Role == entity.RoleSupport {
		return tickets
	}

	own := make([]entity.SupportTicket, 0, len(tickets))
	for _, t := range tickets {
		if t.UserID == viewer.UserID {
			own = append(own, t)
		}
	}

	return own
}

// FileTicket files a new ticket on behalf of the viewer.
func (srv *supportService) FileTicket(_ context.Context, viewer usecase.Viewer, input usecase.FileTicketInput) (entity.SupportTicket, error) {
	if input.Subject == "" {
		return entity.SupportTicket{}, errors.Wrap(domainerrors.ErrValidationFailed, "ticket subject is required")
	}

	priority := input.Priority
	if !priority.IsValid() {
		priority = entity.PriorityMedium
	}

	// Name snapshot so the ticket stays attributable after profile edits.
	userName := ""
	if user, ok := srv.store.State().UserByID(viewer.UserID); ok {
		userName = user.Name
	}

	now := srv.now()
	ticket := entity.SupportTicket{
		ID:          uuid.New(),
		UserID:      viewer.UserID,
		UserName:    userName,
		Subject:     input.Subject,
		Description: input.Description,
		Status:      entity.TicketStatusOpen,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	srv.store.Dispatch(store.AddSupportTicket{Meta: store.NewMeta(now), Ticket: ticket})

	srv.logger.Debug("Support ticket filed", slog.Any("ticketID", ticket.ID), slog.Any("userID", viewer.UserID))

	return ticket, nil
}

// UpdateTicket applies triage changes. Restricted to support and admin.
func (srv *supportService) UpdateTicket(_ context.Context, viewer usecase.Viewer, ticketID uuid.UUID, input usecase.UpdateTicketInput) (entity.SupportTicket, error) {
	if viewer.Role != entity.RoleAdmin && viewer.Role != entity.RoleSupport {
		return entity.SupportTicket{}, errors.Wrap(domainerrors.ErrForbidden, "only support staff may triage tickets")
	}

	state := srv.store.State()
	ticket, ok := ticketByID(state, ticketID)
	if !ok {
		return entity.SupportTicket{}, errors.Wrap(domainerrors.ErrTicketNotFound, "triage failed")
	}

	if input.Status != nil {
		if !input.Status.IsValid() {
			return entity.SupportTicket{}, errors.Wrap(domainerrors.ErrValidationFailed, "unknown ticket status")
		}
		ticket.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return entity.SupportTicket{}, errors.Wrap(domainerrors.ErrValidationFailed, "unknown ticket priority")
		}
		ticket.Priority = *input.Priority
	}
	if input.AssignedTo != nil {
		agent, found := state.UserByID(*input.AssignedTo)
		if !found || (agent.Role != entity.RoleSupport && agent.Role != entity.RoleAdmin) {
			return entity.SupportTicket{}, errors.Wrap(domainerrors.ErrValidationFailed,
				"tickets can only be assigned to support staff")
		}
		ticket.AssignedTo = input.AssignedTo
	}
	ticket.UpdatedAt = srv.now()

	srv.store.Dispatch(store.UpdateSupportTicket{Meta: store.NewMeta(ticket.UpdatedAt), Ticket: ticket})

	return ticket, nil
}

func ticketByID(state store.State, id uuid.UUID) (entity.SupportTicket, bool) {
	for _, t := range state.SupportTickets {
		if t.ID == id {
			return t, true
		}
	}

	return entity.SupportTicket{}, false
}
