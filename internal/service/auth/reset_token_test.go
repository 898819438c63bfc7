package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResetToken(t *testing.T) {
	t.Parallel()

	plaintext, hash, err := NewResetToken()
	require.NoError(t, err)

	assert.Len(t, plaintext, 64, "32 random bytes hex encoded")
	assert.Len(t, hash, 64, "sha-256 hex encoded")
	assert.NotEqual(t, plaintext, hash, "plaintext must never equal the stored hash")

	assert.Equal(t, hash, HashResetToken(plaintext),
		"hashing the plaintext must reproduce the stored hash")

	// Tokens are independent draws.
	other, _, err := NewResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, other)
}

func TestHashResetTokenDeterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, HashResetToken("abc"), HashResetToken("abc"))
	assert.NotEqual(t, HashResetToken("abc"), HashResetToken("abd"))
}
