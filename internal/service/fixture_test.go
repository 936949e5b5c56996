package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository/memory"
)

var t0 = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	clock       *fakeClock
	users       *memory.UserRepository
	tickets     *memory.TicketRepository
	history     *memory.TicketHistoryRepository
	dispatcher  *recordingDispatcher
	ticketSvc   *TicketService
	assignSvc   *AssignmentService
	userSvc     *UserService
	authSvc     *AuthService
	admin       *domain.Identity
	officerA    *domain.Identity
	officerB    *domain.Identity
	officerAUsr *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		clock:      &fakeClock{now: t0},
		users:      memory.NewUserRepository(),
		tickets:    memory.NewTicketRepository(),
		history:    memory.NewTicketHistoryRepository(),
		dispatcher: &recordingDispatcher{},
	}
	clock := Clock(f.clock.Now)
	f.ticketSvc = NewTicketService(TicketDependencies{
		TicketRepo:  f.tickets,
		HistoryRepo: f.history,
		Dispatcher:  f.dispatcher,
		SLA:         domain.DefaultSLA,
		Clock:       clock,
	})
	f.assignSvc = NewAssignmentService(AssignmentDependencies{
		TicketRepo:  f.tickets,
		UserRepo:    f.users,
		HistoryRepo: f.history,
		Dispatcher:  f.dispatcher,
		Clock:       clock,
	})
	f.userSvc = NewUserService(UserDependencies{UserRepo: f.users, BcryptCost: 4, Clock: clock})
	f.authSvc = NewAuthService(config.Config{
		Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 300, BcryptCost: 4},
		Bootstrap: config.BootstrapConfig{
			AdminName:     "Admin User",
			AdminEmail:    "admin@ministry.gov.ag",
			AdminPassword: "password",
		},
	}, AuthDependencies{UserRepo: f.users, Clock: clock})

	f.admin = f.seedUser(t, "Ada Admin", "ada@example.org", domain.RoleAdmin)
	f.officerA = f.seedUser(t, "Olu Officer", "olu@example.org", domain.RoleOfficer)
	f.officerB = f.seedUser(t, "Bea Officer", "bea@example.org", domain.RoleOfficer)
	usr, err := f.users.GetByID(context.Background(), f.officerA.ID)
	require.NoError(t, err)
	f.officerAUsr = usr
	return f
}

func (f *fixture) seedUser(t *testing.T, name, email string, role domain.Role) *domain.Identity {
	t.Helper()
	hash, err := auth.HashPassword("secret-pass", 4)
	require.NoError(t, err)
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    f.clock.Now(),
		UpdatedAt:    f.clock.Now(),
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	f.clock.Advance(time.Second)
	return &domain.Identity{ID: user.ID, Role: role, Name: name, Email: email}
}

func (f *fixture) submit(t *testing.T, requester string) *domain.Ticket {
	t.Helper()
	ticket, err := f.ticketSvc.CreateTicket(context.Background(), TicketCreateInput{
		RequesterName:    requester,
		RequesterEmail:   "requester@example.org",
		Phone:            "268-555-0101",
		Department:       "Information Technology",
		IssueDescription: "Network cable unplugged in office 12",
	})
	require.NoError(t, err)
	f.clock.Advance(time.Second)
	return ticket
}
