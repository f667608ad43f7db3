package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheap settings keep the test fast
var testParams = PasswordParams{Memory: 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPasswordWith("secret1", testParams)
	require.NoError(t, err)

	assert.NotEqual(t, "secret1", hash)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$"))

	ok, err := VerifyPassword("secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("secret2", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	a, err := HashPasswordWith("secret1", testParams)
	require.NoError(t, err)
	b, err := HashPasswordWith("secret1", testParams)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashPassword_Defaults(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=2$"))

	ok, err := VerifyPassword("secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyPassword_InvalidHash(t *testing.T) {
	for _, h := range []string{
		"",
		"plaintext",
		"$2a$10$abcdefghijklmnopqrstuv",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$aGFzaA",
	} {
		ok, err := VerifyPassword("secret1", h)
		assert.ErrorIs(t, err, ErrInvalidHash, h)
		assert.False(t, ok)
	}
}
