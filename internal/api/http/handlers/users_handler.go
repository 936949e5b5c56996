package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/service"
)

// UsersHandler exposes staff account administration.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// Create POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	identity, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.service.CreateUser(c.UserContext(), identity, service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, dto.NewUserResponse(user))
}

// List GET /users?role=OFFICER.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	identity, err := principal(c)
	if err != nil {
		return err
	}
	filter := repository.UserFilter{}
	if raw := strings.TrimSpace(c.Query("role")); raw != "" {
		role := domain.Role(strings.ToUpper(raw))
		filter.Role = &role
	}
	users, err := h.service.ListUsers(c.UserContext(), identity, filter)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return data(c, fiber.StatusOK, items)
}

// Update PUT /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	identity, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.service.UpdateUser(c.UserContext(), identity, c.Params("id"), service.UpdateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewUserResponse(user))
}

// Delete DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	identity, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteUser(c.UserContext(), identity, c.Params("id")); err != nil {
		return err
	}
	return data(c, fiber.StatusOK, fiber.Map{"message": "user deleted"})
}
