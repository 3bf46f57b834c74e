package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("超ひみつのパスワード")
	require.NoError(t, err)
	assert.NotContains(t, hash, "超ひみつのパスワード")

	ok, err := VerifyPassword("超ひみつのパスワード", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordBadEncoding(t *testing.T) {
	_, err := VerifyPassword("x", "not-an-encoded-hash")
	assert.Error(t, err)

	hash1, err := HashPassword("a")
	require.NoError(t, err)
	hash2, err := HashPassword("a")
	require.NoError(t, err)
	// random salts make hashes differ
	assert.NotEqual(t, hash1, hash2)
}
