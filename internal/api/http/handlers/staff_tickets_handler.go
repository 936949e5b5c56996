package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/service"
)

// StaffTicketsHandler serves the assign, resolve and delegate transitions.
type StaffTicketsHandler struct {
	service *service.AssignmentService
}

// NewStaffTicketsHandler constructs handler.
func NewStaffTicketsHandler(assignmentService *service.AssignmentService) *StaffTicketsHandler {
	return &StaffTicketsHandler{service: assignmentService}
}

// Assign PUT /tickets/:id/assign.
func (h *StaffTicketsHandler) Assign(c *fiber.Ctx) error {
	identity, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.AssignTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.AssignTicket(c.UserContext(), identity, c.Params("id"), req.OfficerID)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewTicketResponse(ticket))
}

// Resolve PUT /tickets/:id/resolve.
func (h *StaffTicketsHandler) Resolve(c *fiber.Ctx) error {
	identity, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.ResolveTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.ResolveTicket(c.UserContext(), identity, c.Params("id"), req.ResolutionDetails)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewTicketResponse(ticket))
}

// Delegate PUT /tickets/:id/delegate.
func (h *StaffTicketsHandler) Delegate(c *fiber.Ctx) error {
	identity, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.DelegateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.service.DelegateTicket(c.UserContext(), identity, c.Params("id"), req.NewOfficerID)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewTicketResponse(ticket))
}
