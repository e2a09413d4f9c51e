package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResetToken(t *testing.T) {
	tok, err := NewResetToken(60)
	require.NoError(t, err)

	// 32 random bytes hex-encoded: 64 chars, 256 bits of entropy.
	assert.Len(t, tok.Raw, 64)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), tok.Exp, 5*time.Second)

	other, err := NewResetToken(60)
	require.NoError(t, err)
	assert.NotEqual(t, tok.Raw, other.Raw)
}

func TestNewRefreshToken(t *testing.T) {
	tok, err := NewRefreshToken(7)
	require.NoError(t, err)
	assert.Len(t, tok.Raw, 96)
	assert.WithinDuration(t, time.Now().UTC().Add(7*24*time.Hour), tok.Exp, 5*time.Second)
}

func TestHashTokenRaw(t *testing.T) {
	h1 := HashTokenRaw("abc")
	h2 := HashTokenRaw("abc")
	h3 := HashTokenRaw("abd")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64) // sha256 hex
	assert.NotContains(t, h1, "abc")
}

func TestNewAccessTokenClaims(t *testing.T) {
	at, err := NewAccessToken("test-secret", 42, "ADMIN", 15)
	require.NoError(t, err)

	tok, err := jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)

	claims, ok := tok.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "ADMIN", claims["role"])
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), at.Exp, 5*time.Second)

	// Only the minimal identity is in the token.
	_, hasEmail := claims["email"]
	assert.False(t, hasEmail)
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	at, err := NewAccessToken("secret-a", 1, "STANDARD", 15)
	require.NoError(t, err)

	_, err = jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("secret-b"), nil
	})
	assert.Error(t, err)
}
