package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// AssignmentService handles the staff workflow transitions on a ticket.
type AssignmentService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	history    repository.TicketHistoryRepository
	dispatcher events.Dispatcher
	tx         repository.Transactor
	clock      Clock
}

// AssignmentDependencies bundles repositories. Tx is optional; without it the
// ticket write and its history entry are separate statements.
type AssignmentDependencies struct {
	TicketRepo  repository.TicketRepository
	UserRepo    repository.UserRepository
	HistoryRepo repository.TicketHistoryRepository
	Dispatcher  events.Dispatcher
	Tx          repository.Transactor
	Clock       Clock
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
		tx:         deps.Tx,
		clock:      deps.Clock,
	}
}

// AssignTicket assigns a ticket to an officer. Admin only.
func (s *AssignmentService) AssignTicket(ctx context.Context, actor *domain.Identity, ticketID, officerID string) (*domain.Ticket, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	officerID = strings.TrimSpace(officerID)
	if officerID == "" {
		return nil, apperrors.NewValidationError("officer_id is required", nil)
	}
	officer, err := s.lookupOfficer(ctx, officerID)
	if err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapRepoError(err, "ticket", ticketID)
	}
	if ticket.IsResolved() {
		return nil, apperrors.NewConflict("ticket is already resolved", map[string]any{"ticket_id": ticketID})
	}

	previous := ticket.AssignedToUserID
	fromStatus := ticket.Status
	ticket.AssignTo(officer)
	if err := s.commit(ctx, actor, ticket, domain.ActionAssigned, fromStatus, officer.Name); err != nil {
		return nil, err
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:      events.EventTicketAssigned,
		TicketID:  ticket.ID,
		Actor:     identityActor(*actor),
		Timestamp: ticket.UpdatedAt,
		Payload: events.TicketAssignedPayload{
			PreviousOfficerID: previous,
			OfficerID:         officer.ID,
			OfficerName:       officer.Name,
		},
	})
	return s.view(ticket), nil
}

// ResolveTicket closes a ticket. Allowed for admins and the current assignee.
func (s *AssignmentService) ResolveTicket(ctx context.Context, actor *domain.Identity, ticketID, details string) (*domain.Ticket, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	details = strings.TrimSpace(details)
	if details == "" {
		return nil, apperrors.NewValidationError("resolution_details is required", nil)
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapRepoError(err, "ticket", ticketID)
	}
	if !canWorkTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("only an admin or the assigned officer can resolve this ticket")
	}
	if ticket.IsResolved() {
		return nil, apperrors.NewConflict("ticket is already resolved", map[string]any{"ticket_id": ticketID})
	}

	fromStatus := ticket.Status
	ticket.Resolve(details)
	if err := s.commit(ctx, actor, ticket, domain.ActionResolved, fromStatus, details); err != nil {
		return nil, err
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:      events.EventTicketResolved,
		TicketID:  ticket.ID,
		Actor:     identityActor(*actor),
		Timestamp: ticket.UpdatedAt,
		Payload:   events.TicketResolvedPayload{ResolutionDetails: details},
	})
	return s.view(ticket), nil
}

// DelegateTicket hands an assigned ticket to another officer.
func (s *AssignmentService) DelegateTicket(ctx context.Context, actor *domain.Identity, ticketID, newOfficerID string) (*domain.Ticket, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	newOfficerID = strings.TrimSpace(newOfficerID)
	if newOfficerID == "" {
		return nil, apperrors.NewValidationError("new_officer_id is required", nil)
	}
	if newOfficerID == actor.ID && !actor.IsAdmin() {
		return nil, apperrors.NewValidationError("cannot delegate a ticket to yourself", nil)
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapRepoError(err, "ticket", ticketID)
	}
	if !canWorkTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("only an admin or the assigned officer can delegate this ticket")
	}
	officer, err := s.lookupOfficer(ctx, newOfficerID)
	if err != nil {
		return nil, err
	}
	if ticket.IsResolved() {
		return nil, apperrors.NewConflict("ticket is already resolved", map[string]any{"ticket_id": ticketID})
	}

	previous := ticket.AssignedToUserID
	fromStatus := ticket.Status
	ticket.AssignTo(officer)
	if err := s.commit(ctx, actor, ticket, domain.ActionDelegated, fromStatus, officer.Name); err != nil {
		return nil, err
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:      events.EventTicketDelegated,
		TicketID:  ticket.ID,
		Actor:     identityActor(*actor),
		Timestamp: ticket.UpdatedAt,
		Payload: events.TicketAssignedPayload{
			PreviousOfficerID: previous,
			OfficerID:         officer.ID,
			OfficerName:       officer.Name,
		},
	})
	return s.view(ticket), nil
}

func (s *AssignmentService) lookupOfficer(ctx context.Context, officerID string) (*domain.User, error) {
	officer, err := s.users.GetByID(ctx, officerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("officer", map[string]any{"officer_id": officerID})
		}
		return nil, apperrors.MapError(err)
	}
	if officer.Role != domain.RoleOfficer {
		return nil, apperrors.NewNotFound("officer", map[string]any{"officer_id": officerID})
	}
	return officer, nil
}

// save writes the ticket with a version check against the copy that was read.
// commit stores the transition and its history entry in one transaction.
func (s *AssignmentService) commit(ctx context.Context, actor *domain.Identity, ticket *domain.Ticket, action domain.TicketAction, from domain.TicketStatus, note string) error {
	return withinTx(ctx, s.tx, func(ctx context.Context) error {
		if err := s.save(ctx, ticket); err != nil {
			return err
		}
		return s.record(ctx, actor, ticket, action, from, note)
	})
}

func (s *AssignmentService) save(ctx context.Context, ticket *domain.Ticket) error {
	ticket.UpdatedAt = s.clock.now()
	return mapRepoError(s.tickets.Update(ctx, ticket), "ticket", ticket.ID)
}

func (s *AssignmentService) record(ctx context.Context, actor *domain.Identity, ticket *domain.Ticket, action domain.TicketAction, from domain.TicketStatus, note string) error {
	actorID := actor.ID
	err := recordHistory(ctx, s.history, &domain.TicketHistory{
		TicketID:   ticket.ID,
		ActorID:    &actorID,
		ActorName:  actor.Name,
		Action:     action,
		FromStatus: statusPtr(from),
		ToStatus:   ticket.Status,
		Note:       note,
		CreatedAt:  ticket.UpdatedAt,
	})
	return apperrors.MapError(err)
}

func (s *AssignmentService) view(ticket *domain.Ticket) *domain.Ticket {
	projected := ticket.Projected(s.clock.now())
	return &projected
}

func canWorkTicket(actor *domain.Identity, ticket *domain.Ticket) bool {
	return actor.IsAdmin() || ticket.IsAssignedTo(actor.ID)
}

func requireStaff(actor *domain.Identity) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !actor.Role.IsStaff() {
		return apperrors.NewForbidden("staff role required")
	}
	return nil
}

func requireAdmin(actor *domain.Identity) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}
