package jwt

import (
	"testing"
	"time"

	"klinik-sentosa/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	s := NewJWTService(config.JWTConfig{Secret: "secret"})

	token, tokenID, err := s.GenerateAccessToken("u1", "admin", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, tokenID, claims.TokenID)
	assert.Nil(t, claims.ExpiresAt, "tokens do not expire by default")
}

func TestJWTService_Expiry(t *testing.T) {
	s := NewJWTService(config.JWTConfig{Secret: "secret", AccessExpiry: time.Hour})
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := s.GenerateAccessToken("u1", "admin", "admin")
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, _, err := NewJWTService(config.JWTConfig{Secret: "a"}).GenerateAccessToken("u1", "admin", "admin")
	require.NoError(t, err)

	_, err = NewJWTService(config.JWTConfig{Secret: "b"}).ValidateToken(token)
	assert.Error(t, err)
}
