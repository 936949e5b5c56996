package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("TICKET_SLA_HOURS", "")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "")
	t.Setenv("INITIAL_ADMIN_EMAIL", "")
	t.Setenv("APP_NAME", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 72*time.Hour, cfg.Tickets.SLA())
	assert.Equal(t, 5*time.Hour, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, "admin@ministry.gov.ag", cfg.Bootstrap.AdminEmail)
	assert.Equal(t, "helpdesk:ticket-events", cfg.Notification.Channel)
	assert.Equal(t, "helpdesk", cfg.Logger.Service)
	assert.Equal(t, "test", cfg.Logger.Env)
	assert.True(t, cfg.Logger.Development)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("TICKET_SLA_HOURS", "24")
	t.Setenv("AUTH_BCRYPT_COST", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.App.Addr())
	assert.Equal(t, 24*time.Hour, cfg.Tickets.SLA())
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "primary")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Config{
		App:     AppConfig{Env: "production"},
		Auth:    AuthConfig{JWTSecret: "dev-secret"},
		Tickets: TicketConfig{SLAHours: 72},
	}
	assert.Error(t, cfg.Validate())

	cfg.Auth.JWTSecret = "s3cret"
	assert.NoError(t, cfg.Validate())

	cfg.Tickets.SLAHours = 0
	assert.Error(t, cfg.Validate())
}

func TestRequestTimeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), AppConfig{}.RequestTimeout())
	assert.Equal(t, 5*time.Second, AppConfig{RequestTimeoutSeconds: 5}.RequestTimeout())
}
