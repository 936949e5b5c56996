package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/persistence"
	"github.com/spec-kit/helpdesk/internal/repository/memory"
	"github.com/spec-kit/helpdesk/internal/service"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testServer struct {
	app     *fiber.App
	clock   *testClock
	metrics *observability.Metrics
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.Config{
		App:       config.AppConfig{Name: "helpdesk", Version: "test", RequestTimeoutSeconds: 5, CORSAllowOrigins: "*"},
		Auth:      config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 300, BcryptCost: 4},
		Tickets:   config.TicketConfig{SLAHours: 72},
		Bootstrap: config.BootstrapConfig{AdminName: "Admin User", AdminEmail: "admin@ministry.gov.ag", AdminPassword: "password"},
	}
	clock := &testClock{now: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
	users := memory.NewUserRepository()
	tickets := memory.NewTicketRepository()
	history := memory.NewTicketHistoryRepository()
	dispatcher := events.NewInMemoryDispatcher()

	authSvc := service.NewAuthService(cfg, service.AuthDependencies{UserRepo: users, Clock: clock.Now})
	_, created, err := authSvc.EnsureBootstrapAdmin(context.Background())
	require.NoError(t, err)
	require.True(t, created)

	metrics := observability.NewMetrics()
	app := NewServer(ServerDependencies{
		Config:      cfg,
		Logger:      zap.NewNop(),
		Metrics:     metrics,
		Postgres:    &persistence.Postgres{},
		Redis:       &persistence.Redis{},
		AuthService: authSvc,
		TicketService: service.NewTicketService(service.TicketDependencies{
			TicketRepo: tickets, HistoryRepo: history, Dispatcher: dispatcher, SLA: cfg.Tickets.SLA(), Clock: clock.Now,
		}),
		AssignmentService: service.NewAssignmentService(service.AssignmentDependencies{
			TicketRepo: tickets, UserRepo: users, HistoryRepo: history, Dispatcher: dispatcher, Clock: clock.Now,
		}),
		UserService: service.NewUserService(service.UserDependencies{UserRepo: users, BcryptCost: 4, Clock: clock.Now}),
	})
	return &testServer{app: app, clock: clock, metrics: metrics}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	status, env := s.do(t, "POST", "/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, fiber.StatusOK, status)
	var out struct {
		Token string `json:"token"`
		User  struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func (s *testServer) createOfficer(t *testing.T, adminToken, name, email string) string {
	t.Helper()
	status, env := s.do(t, "POST", "/users", adminToken, map[string]string{
		"name": name, "email": email, "password": "officer-pass", "role": "OFFICER",
	})
	require.Equal(t, fiber.StatusCreated, status)
	var user map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.NotContains(t, user, "password_hash")
	return user["id"].(string)
}

func (s *testServer) submitTicket(t *testing.T) string {
	t.Helper()
	status, env := s.do(t, "POST", "/tickets", "", map[string]string{
		"requester_name":    "Jane Public",
		"requester_email":   "jane@example.org",
		"phone":             "268-555-0100",
		"department":        "Information Technology",
		"issue_description": "Cannot reach the shared drive",
	})
	require.Equal(t, fiber.StatusCreated, status)
	var ticket map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &ticket))
	assert.Equal(t, "NEW", ticket["status"])
	s.clock.Advance(time.Second)
	return ticket["id"].(string)
}

func decodeTickets(t *testing.T, env envelope) []map[string]any {
	t.Helper()
	var page struct {
		Items []map[string]any `json:"items"`
		Total int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	return page.Items
}

func TestLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin@ministry.gov.ag", "password")
	officerX := s.createOfficer(t, admin, "Officer X", "x@example.org")
	s.createOfficer(t, admin, "Officer Y", "y@example.org")
	xToken := s.login(t, "x@example.org", "officer-pass")
	yToken := s.login(t, "y@example.org", "officer-pass")

	ticketID := s.submitTicket(t)

	status, env := s.do(t, "GET", "/tickets", admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	items := decodeTickets(t, env)
	require.Len(t, items, 1)
	assert.Equal(t, "NEW", items[0]["status"])

	status, env = s.do(t, "PUT", "/tickets/"+ticketID+"/assign", admin, map[string]string{"officer_id": officerX})
	require.Equal(t, fiber.StatusOK, status)
	var ticket map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &ticket))
	assert.Equal(t, "ASSIGNED", ticket["status"])
	assert.Equal(t, "Officer X", ticket["assigned_to_user_name"])

	status, env = s.do(t, "PUT", "/tickets/"+ticketID+"/resolve", xToken, map[string]string{"resolution_details": "fixed cable"})
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &ticket))
	assert.Equal(t, "RESOLVED", ticket["status"])
	assert.Equal(t, "fixed cable", ticket["resolution_details"])

	status, env = s.do(t, "PUT", "/tickets/"+ticketID+"/resolve", yToken, map[string]string{"resolution_details": "again"})
	assert.Equal(t, fiber.StatusForbidden, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	status, env = s.do(t, "PUT", "/tickets/"+ticketID+"/resolve", xToken, map[string]string{"resolution_details": "again"})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	status, env = s.do(t, "GET", "/tickets/"+ticketID, xToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	var detail struct {
		History []map[string]any `json:"history"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Len(t, detail.History, 3)
}

func TestOverdueOverHTTP(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin@ministry.gov.ag", "password")
	officer := s.createOfficer(t, admin, "Officer X", "x@example.org")

	stale := s.submitTicket(t)
	fixed := s.submitTicket(t)
	status, _ := s.do(t, "PUT", "/tickets/"+fixed+"/assign", admin, map[string]string{"officer_id": officer})
	require.Equal(t, fiber.StatusOK, status)
	status, _ = s.do(t, "PUT", "/tickets/"+fixed+"/resolve", admin, map[string]string{"resolution_details": "done"})
	require.Equal(t, fiber.StatusOK, status)

	s.clock.Advance(4 * 24 * time.Hour)

	status, env := s.do(t, "GET", "/tickets", admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	byID := map[string]any{}
	for _, item := range decodeTickets(t, env) {
		byID[item["id"].(string)] = item["status"]
	}
	assert.Equal(t, "OVERDUE", byID[stale])
	assert.Equal(t, "RESOLVED", byID[fixed])

	status, env = s.do(t, "GET", "/tickets/stats", admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	var stats map[string]int
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, map[string]int{"total": 2, "resolved": 1, "pending_assignment": 0, "in_progress": 0, "overdue": 1}, stats)

	status, env = s.do(t, "GET", "/tickets?status=overdue&page=1&page_size=10", admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decodeTickets(t, env), 1)
}

func TestAuthGuardOverHTTP(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin@ministry.gov.ag", "password")
	s.createOfficer(t, admin, "Officer X", "x@example.org")
	officer := s.login(t, "x@example.org", "officer-pass")

	status, env := s.do(t, "GET", "/tickets", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	req := httptest.NewRequest("GET", "/tickets", nil)
	req.Header.Set("Authorization", "Token "+admin)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	status, _ = s.do(t, "GET", "/tickets", "not-a-jwt", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, env = s.do(t, "GET", "/users", officer, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	status, _ = s.do(t, "PUT", "/tickets/anything/assign", officer, map[string]string{"officer_id": "x"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, env = s.do(t, "GET", "/auth/me", officer, nil)
	require.Equal(t, fiber.StatusOK, status)
	var me map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "x@example.org", me["email"])
	assert.Equal(t, string(domain.RoleOfficer), me["role"])
}

func TestLoginFailuresOverHTTP(t *testing.T) {
	s := newTestServer(t)

	status, unknown := s.do(t, "POST", "/auth/login", "", map[string]string{"email": "who@example.org", "password": "password"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, wrong := s.do(t, "POST", "/auth/login", "", map[string]string{"email": "admin@ministry.gov.ag", "password": "nope"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INVALID_CREDENTIALS", unknown.Error.Code)
	assert.Equal(t, unknown.Error.Message, wrong.Error.Message)

	status, empty := s.do(t, "POST", "/auth/login", "", map[string]string{"email": "", "password": ""})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INVALID_CREDENTIALS", empty.Error.Code)
	assert.Equal(t, unknown.Error.Message, empty.Error.Message)
}

func TestMetricsKeysStayBoundedOverHTTP(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 200; i++ {
		status, _ := s.do(t, "GET", fmt.Sprintf("/junk-%d", i), "", nil)
		require.Equal(t, fiber.StatusNotFound, status)
		status, _ = s.do(t, "PUT", fmt.Sprintf("/tickets/id-%d/resolve", i), "", map[string]string{"resolution_details": "x"})
		require.Equal(t, fiber.StatusUnauthorized, status)
		status, _ = s.do(t, "GET", fmt.Sprintf("/users/%d/extra/%d", i, i), "", nil)
		require.Equal(t, fiber.StatusUnauthorized, status)
	}

	snap := s.metrics.Snapshot()
	assert.Equal(t, int64(600), snap.Requests)
	assert.Equal(t, int64(200), snap.ByRoute["GET <unmatched>|404"])
	assert.Equal(t, int64(200), snap.ByRoute["PUT /tickets/:id/resolve|401"])
	assert.Equal(t, int64(200), snap.Errors["GET <unmatched>|NOT_FOUND"])
	assert.Equal(t, int64(200), snap.Errors["PUT /tickets/:id/resolve|UNAUTHORIZED"])
	assert.LessOrEqual(t, len(snap.ByRoute), 3)
	assert.LessOrEqual(t, len(snap.Errors), 3)
}

func TestValidationAndRoutingErrors(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin@ministry.gov.ag", "password")

	status, env := s.do(t, "POST", "/tickets", "", map[string]string{"requester_name": "Only Name"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)

	status, env = s.do(t, "POST", "/users", admin, map[string]string{
		"name": "Dup", "email": "admin@ministry.gov.ag", "password": "p", "role": "OFFICER",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "user with this email already exists", env.Error.Message)

	status, env = s.do(t, "PUT", "/tickets/missing/assign", admin, map[string]string{"officer_id": "nobody"})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	status, env = s.do(t, "GET", "/no/such/route", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)

	status, env = s.do(t, "GET", "/tickets?status=BOGUS", admin, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
}

func TestUserAdminOverHTTP(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin@ministry.gov.ag", "password")
	officer := s.createOfficer(t, admin, "Officer X", "x@example.org")

	status, env := s.do(t, "GET", "/users?role=officer", admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	var users []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &users))
	require.Len(t, users, 1)
	assert.Equal(t, officer, users[0]["id"])

	status, env = s.do(t, "PUT", "/users/"+officer, admin, map[string]string{
		"name": "Officer Renamed", "email": "x@example.org", "role": "OFFICER",
	})
	require.Equal(t, fiber.StatusOK, status)

	status, _ = s.do(t, "DELETE", "/users/"+officer, admin, nil)
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = s.do(t, "DELETE", "/users/"+officer, admin, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestPublicEndpoints(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, "GET", "/departments", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var departments []map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &departments))
	assert.Len(t, departments, len(domain.Departments))

	req := httptest.NewRequest("GET", "/health/ready", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/health/live", nil)
	resp, err = s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
