package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("kennel-secret", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, VerifyPassword(hash, "kennel-secret"))
	assert.False(t, VerifyPassword(hash, "kennel-Secret"))
	assert.False(t, VerifyPassword(hash, ""))
}

func TestRotatedPasswordInvalidatesOld(t *testing.T) {
	oldHash, err := HashPassword("first-password", bcrypt.MinCost)
	require.NoError(t, err)
	newHash, err := HashPassword("second-password", bcrypt.MinCost)
	require.NoError(t, err)

	// After a rotation the stored hash is newHash: the old password must
	// stop authenticating and the new one must work.
	assert.False(t, VerifyPassword(newHash, "first-password"))
	assert.True(t, VerifyPassword(newHash, "second-password"))
	assert.NotEqual(t, oldHash, newHash)
}
