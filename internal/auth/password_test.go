package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_Limits(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", MaxPasswordBytes+1), 4)
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	hash, err := HashPassword(strings.Repeat("a", MaxPasswordBytes), 4)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, strings.Repeat("a", MaxPasswordBytes)))
}

func TestNeedsRehash(t *testing.T) {
	hash, err := HashPassword("secret", 4)
	require.NoError(t, err)

	assert.False(t, NeedsRehash(hash, 4))
	assert.True(t, NeedsRehash(hash, 5))
	assert.True(t, NeedsRehash(hash, 0), "out of range cost means default cost")
	assert.False(t, NeedsRehash("not-a-hash", 4))

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 4, cost)
}
