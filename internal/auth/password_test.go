package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("s3cret-passw0rd")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotContains(t, hash, "s3cret-passw0rd")

	assert.True(t, VerifyPassword("s3cret-passw0rd", hash))
	assert.False(t, VerifyPassword("s3cret-passw0rdx", hash))
	assert.False(t, VerifyPassword("", hash))
}

func TestVerifyPassword_GarbageHash(t *testing.T) {
	t.Parallel()

	assert.False(t, VerifyPassword("whatever", "not-a-bcrypt-hash"))
}

func TestHashPassword_Salted(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("same-password")
	require.NoError(t, err)
	second, err := HashPassword("same-password")
	require.NoError(t, err)

	// Embedded salts make repeated hashes differ while both still verify.
	assert.NotEqual(t, first, second)
	assert.True(t, VerifyPassword("same-password", first))
	assert.True(t, VerifyPassword("same-password", second))
}
