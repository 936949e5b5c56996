package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// UserService manages staff accounts. Every operation requires an ADMIN.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
	clock      Clock
}

// UserDependencies bundles repositories for the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	BcryptCost int
	Clock      Clock
}

// CreateUserInput describes a new staff account.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// UpdateUserInput replaces a staff account's profile. The password is untouched.
type UpdateUserInput struct {
	Name  string
	Email string
	Role  domain.Role
}

// NewUserService creates the service.
func NewUserService(deps UserDependencies) *UserService {
	return &UserService{
		users:      deps.UserRepo,
		bcryptCost: deps.BcryptCost,
		clock:      deps.Clock,
	}
}

// CreateUser adds a staff account.
func (s *UserService) CreateUser(ctx context.Context, actor *domain.Identity, input CreateUserInput) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if input.Name == "" || input.Email == "" || input.Password == "" || input.Role == "" {
		return nil, apperrors.NewValidationError("name, email, password, and role are required", nil)
	}
	if !input.Role.Valid() {
		return nil, invalidRole(input.Role)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	now := s.clock.now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, mapUserError(err, user.ID)
	}
	return user, nil
}

// ListUsers returns staff accounts newest first.
func (s *UserService) ListUsers(ctx context.Context, actor *domain.Identity, filter repository.UserFilter) ([]domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if filter.Role != nil && !filter.Role.Valid() {
		return nil, invalidRole(*filter.Role)
	}
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// UpdateUser changes name, email and role of an existing account.
func (s *UserService) UpdateUser(ctx context.Context, actor *domain.Identity, userID string, input UpdateUserInput) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if input.Name == "" || input.Email == "" || input.Role == "" {
		return nil, apperrors.NewValidationError("name, email, and role are required", nil)
	}
	if !input.Role.Valid() {
		return nil, invalidRole(input.Role)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapUserError(err, userID)
	}
	user.Name = input.Name
	user.Email = input.Email
	user.Role = input.Role
	user.UpdatedAt = s.clock.now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, mapUserError(err, userID)
	}
	return user, nil
}

// DeleteUser removes an account. Admins cannot remove themselves.
func (s *UserService) DeleteUser(ctx context.Context, actor *domain.Identity, userID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if userID == actor.ID {
		return apperrors.NewValidationError("you cannot delete your own account", nil)
	}
	return mapUserError(s.users.Delete(ctx, userID), userID)
}

func mapUserError(err error, userID string) error {
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return apperrors.NewValidationError("user with this email already exists", nil)
	}
	return mapRepoError(err, "user", userID)
}

func invalidRole(role domain.Role) error {
	return apperrors.NewValidationError("role must be ADMIN or OFFICER", map[string]any{"role": string(role)})
}
