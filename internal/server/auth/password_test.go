package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "secret", hash)

	assert.True(t, CheckPassword("secret", hash))
	assert.False(t, CheckPassword("wrong", hash))
	assert.False(t, CheckPassword("secret", "not-a-hash"))
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	h1, err := HashPassword("secret")
	require.NoError(t, err)
	h2, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
