package handlers

import (
	"math"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// TicketsHandler serves ticket submission and staff read endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets. Public.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		RequesterName:    req.RequesterName,
		RequesterEmail:   req.RequesterEmail,
		Phone:            req.Phone,
		Department:       req.Department,
		IssueDescription: req.IssueDescription,
		AttachmentName:   req.AttachmentName,
	})
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, dto.NewTicketResponse(ticket))
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	identity, err := principal(c)
	if err != nil {
		return err
	}
	filter, page, pageSize, err := parseTicketQuery(c, identity)
	if err != nil {
		return err
	}
	tickets, total, err := h.service.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketResponse(&tickets[i]))
	}
	return data(c, fiber.StatusOK, dto.TicketListResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, history, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewTicketDetailResponse(ticket, history))
}

// Stats GET /tickets/stats.
func (h *TicketsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.TicketStatsResponse{
		Total:             stats.Total,
		Resolved:          stats.Resolved,
		PendingAssignment: stats.PendingAssignment,
		InProgress:        stats.InProgress,
		Overdue:           stats.Overdue,
	})
}

// parseTicketQuery reads status, assigned_to, q, page and page_size.
// Without page_size every match is returned.
func parseTicketQuery(c *fiber.Ctx, identity *domain.Identity) (service.TicketListFilter, int, int, error) {
	filter := service.TicketListFilter{Search: c.Query("q")}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := domain.TicketStatus(strings.ToUpper(raw))
		if !status.Valid() {
			return filter, 0, 0, apperrors.NewValidationError("unknown status filter", map[string]any{"status": raw})
		}
		filter.Status = &status
	}
	if assignee := strings.TrimSpace(c.Query("assigned_to")); assignee != "" {
		if assignee == "me" {
			assignee = identity.ID
		}
		filter.AssignedTo = &assignee
	}

	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 0)
	if pageSize > 0 {
		filter.Limit = pageSize
		filter.Offset = pageOffset(page, pageSize)
	}
	return filter, page, pageSize, nil
}

// pageOffset saturates at math.MaxInt so a huge page yields an empty page
// instead of wrapping around to the first one.
func pageOffset(page, pageSize int) int {
	if page <= 1 || pageSize <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}
