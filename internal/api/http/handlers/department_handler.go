package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/domain"
)

// ListDepartments GET /departments. Public.
func ListDepartments(c *fiber.Ctx) error {
	items := make([]dto.DepartmentResponse, 0, len(domain.Departments))
	for _, d := range domain.Departments {
		items = append(items, dto.DepartmentResponse{ID: d.ID, Name: d.Name})
	}
	return data(c, fiber.StatusOK, items)
}
