package auth

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{ID: "u-1", Name: "Ada Officer", Email: "ada@ministry.gov.ag", Role: domain.RoleOfficer}
}

func TestGenerateAndParse(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("super-secret", time.Hour)
	tok, exp, err := tm.GenerateToken(testUser())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := tm.ParseToken(tok)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{
		ID:    "u-1",
		Role:  domain.RoleOfficer,
		Name:  "Ada Officer",
		Email: "ada@ministry.gov.ag",
	}, claims.Identity())
	assert.Equal(t, "u-1", claims.Subject)
}

func TestDefaultTTLIsFiveHours(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("k", 0)
	_, exp, err := tm.GenerateToken(testUser())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Hour), exp, 5*time.Second)
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("k", -time.Minute)
	tok, _, err := tm.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = tm.ParseToken(tok)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, _, err := NewTokenManager("right", time.Hour).GenerateToken(testUser())
	require.NoError(t, err)

	_, err = NewTokenManager("wrong", time.Hour).ParseToken(tok)
	assert.Error(t, err)
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	claims := &Claims{
		UserID: "u-1",
		Role:   domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("k", time.Hour).ParseToken(tok)
	assert.Error(t, err)
}

func TestParseToken_Malformed(t *testing.T) {
	t.Parallel()

	_, err := NewTokenManager("k", time.Hour).ParseToken("not.a.jwt")
	assert.Error(t, err)
	_, err = NewTokenManager("k", time.Hour).ParseToken(strings.Repeat("x", 10))
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("hunter2", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)
	assert.NoError(t, ComparePassword(hash, "hunter2"))
	assert.Error(t, ComparePassword(hash, "hunter3"))

	other, err := HashPassword("hunter2", 4)
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "hashes must be salted")
}
