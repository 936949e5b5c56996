package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService coordinates login and the initial admin bootstrap.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	bootstrap  config.BootstrapConfig
	clock      Clock
	logger     *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Clock    Clock
	Logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		bcryptCost: cfg.Auth.BcryptCost,
		bootstrap:  cfg.Bootstrap,
		clock:      deps.Clock,
		logger:     logger,
	}
}

// Login exchanges credentials for a signed token. Missing fields, unknown
// emails and wrong passwords all fail with the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperrors.NewInvalidCredentials()
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}
	s.upgradeHash(ctx, user, password)

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}

// upgradeHash re-hashes the password when the configured bcrypt cost changed.
// Failures leave the old hash in place.
func (s *AuthService) upgradeHash(ctx context.Context, user *domain.User, password string) {
	if !auth.NeedsRehash(user.PasswordHash, s.bcryptCost) {
		return
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		s.logger.Warn("password rehash failed", zap.String("user_id", user.ID), zap.Error(err))
		return
	}
	updated := *user
	updated.PasswordHash = hash
	if err := s.users.Update(ctx, &updated); err != nil {
		s.logger.Warn("storing rehashed password failed", zap.String("user_id", user.ID), zap.Error(err))
		return
	}
	user.PasswordHash = hash
}

// Me loads the stored user behind an authenticated identity.
func (s *AuthService) Me(ctx context.Context, identity *domain.Identity) (*domain.User, error) {
	if identity == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	user, err := s.users.GetByID(ctx, identity.ID)
	if err != nil {
		return nil, mapRepoError(err, "user", identity.ID)
	}
	return user, nil
}

// EnsureBootstrapAdmin creates the first ADMIN when the user store is empty.
// It reports whether a user was created.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context) (*domain.User, bool, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return nil, false, err
	}
	if count > 0 {
		return nil, false, nil
	}

	hash, err := auth.HashPassword(s.bootstrap.AdminPassword, s.bcryptCost)
	if err != nil {
		return nil, false, err
	}
	now := s.clock.now()
	admin := &domain.User{
		ID:           uuid.NewString(),
		Name:         s.bootstrap.AdminName,
		Email:        s.bootstrap.AdminEmail,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return nil, false, err
	}
	return admin, true, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
