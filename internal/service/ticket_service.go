package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// TicketService coordinates ticket submission and read workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	history    repository.TicketHistoryRepository
	dispatcher events.Dispatcher
	tx         repository.Transactor
	sla        time.Duration
	clock      Clock
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	HistoryRepo repository.TicketHistoryRepository
	Dispatcher  events.Dispatcher
	Tx          repository.Transactor
	SLA         time.Duration
	Clock       Clock
}

// TicketCreateInput describes a public ticket submission.
type TicketCreateInput struct {
	RequesterName    string
	RequesterEmail   string
	Phone            string
	Department       string
	IssueDescription string
	AttachmentName   string
}

// TicketListFilter narrows staff listings. Filters apply to the projected status.
type TicketListFilter struct {
	Status     *domain.TicketStatus
	AssignedTo *string
	Search     string
	Limit      int
	Offset     int
}

// TicketStats aggregates projected statuses for dashboards.
type TicketStats struct {
	Total             int
	Resolved          int
	PendingAssignment int
	InProgress        int
	Overdue           int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	sla := deps.SLA
	if sla <= 0 {
		sla = domain.DefaultSLA
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
		tx:         deps.Tx,
		sla:        sla,
		clock:      deps.Clock,
	}
}

// CreateTicket stores a new public submission with status NEW.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	input = input.trimmed()
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := s.clock.now()
	ticket := &domain.Ticket{
		ID:               uuid.NewString(),
		RequesterName:    input.RequesterName,
		RequesterEmail:   input.RequesterEmail,
		Phone:            input.Phone,
		Department:       input.Department,
		IssueDescription: input.IssueDescription,
		Status:           domain.TicketStatusNew,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
		DueAt:            now.Add(s.sla),
	}
	if input.AttachmentName != "" {
		name := input.AttachmentName
		ticket.AttachmentName = &name
	}

	err := withinTx(ctx, s.tx, func(ctx context.Context) error {
		if err := s.tickets.Create(ctx, ticket); err != nil {
			return err
		}
		return recordHistory(ctx, s.history, &domain.TicketHistory{
			TicketID:  ticket.ID,
			ActorName: ticket.RequesterName,
			Action:    domain.ActionCreated,
			ToStatus:  ticket.Status,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:      events.EventTicketCreated,
		TicketID:  ticket.ID,
		Actor:     events.Actor{Name: ticket.RequesterName},
		Timestamp: now,
		Payload: events.TicketCreatedPayload{
			RequesterName: ticket.RequesterName,
			Department:    ticket.Department,
			DueAt:         ticket.DueAt,
		},
	})
	return ticket, nil
}

// ListTickets returns tickets newest first with overdue projection applied.
// It also returns the number of matches before pagination.
func (s *TicketService) ListTickets(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, int, error) {
	stored, err := s.tickets.List(ctx)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	now := s.clock.now()
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	matched := make([]domain.Ticket, 0, len(stored))
	for _, ticket := range stored {
		view := ticket.Projected(now)
		if filter.Status != nil && view.Status != *filter.Status {
			continue
		}
		if filter.AssignedTo != nil && !view.IsAssignedTo(*filter.AssignedTo) {
			continue
		}
		if search != "" && !matchesSearch(&view, search) {
			continue
		}
		matched = append(matched, view)
	}
	return paginate(matched, filter.Limit, filter.Offset), len(matched), nil
}

// GetTicket returns a single projected ticket and its audit trail.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, []domain.TicketHistory, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, nil, mapRepoError(err, "ticket", ticketID)
	}
	view := ticket.Projected(s.clock.now())

	history := []domain.TicketHistory{}
	if s.history != nil {
		if history, err = s.history.ListByTicket(ctx, ticketID); err != nil {
			return nil, nil, apperrors.MapError(err)
		}
	}
	return &view, history, nil
}

// Stats aggregates ticket counts by projected status.
func (s *TicketService) Stats(ctx context.Context) (TicketStats, error) {
	tickets, _, err := s.ListTickets(ctx, TicketListFilter{})
	if err != nil {
		return TicketStats{}, err
	}
	stats := TicketStats{Total: len(tickets)}
	for _, ticket := range tickets {
		switch ticket.Status {
		case domain.TicketStatusResolved:
			stats.Resolved++
		case domain.TicketStatusNew:
			stats.PendingAssignment++
		case domain.TicketStatusAssigned, domain.TicketStatusInProgress:
			stats.InProgress++
		case domain.TicketStatusOverdue:
			stats.Overdue++
		}
	}
	return stats, nil
}

func (in TicketCreateInput) trimmed() TicketCreateInput {
	return TicketCreateInput{
		RequesterName:    strings.TrimSpace(in.RequesterName),
		RequesterEmail:   strings.TrimSpace(in.RequesterEmail),
		Phone:            strings.TrimSpace(in.Phone),
		Department:       strings.TrimSpace(in.Department),
		IssueDescription: strings.TrimSpace(in.IssueDescription),
		AttachmentName:   strings.TrimSpace(in.AttachmentName),
	}
}

func (in TicketCreateInput) validate() error {
	var missing []string
	if in.RequesterName == "" {
		missing = append(missing, "requester_name")
	}
	if in.RequesterEmail == "" {
		missing = append(missing, "requester_email")
	}
	if in.Phone == "" {
		missing = append(missing, "phone")
	}
	if in.Department == "" {
		missing = append(missing, "department")
	}
	if in.IssueDescription == "" {
		missing = append(missing, "issue_description")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError(
			"requester name, email, phone, department, and issue description are required",
			map[string]any{"missing": missing},
		)
	}
	return nil
}

func matchesSearch(ticket *domain.Ticket, term string) bool {
	return strings.Contains(strings.ToLower(ticket.RequesterName), term) ||
		strings.Contains(strings.ToLower(ticket.Phone), term) ||
		strings.Contains(strings.ToLower(ticket.IssueDescription), term)
}

func paginate(tickets []domain.Ticket, limit, offset int) []domain.Ticket {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(tickets) {
		return []domain.Ticket{}
	}
	tickets = tickets[offset:]
	if limit > 0 && limit < len(tickets) {
		tickets = tickets[:limit]
	}
	return tickets
}
