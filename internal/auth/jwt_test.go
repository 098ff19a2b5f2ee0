package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"scanpay/pkg/config"
)

func TestGenerateAndValidateToken(t *testing.T) {
	util := NewJWTUtil(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})

	token, err := util.GenerateToken(42, "9876543210")
	require.NoError(t, err)

	claims, err := util.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, uint(42), claims.UserID)
	require.Equal(t, "9876543210", claims.Phone)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	token, err := NewJWTUtil(&config.JWTConfig{SigningKey: "key-a", ExpirationHours: 1}).
		GenerateToken(1, "")
	require.NoError(t, err)

	_, err = NewJWTUtil(&config.JWTConfig{SigningKey: "key-b", ExpirationHours: 1}).
		ValidateToken(token)
	require.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	util := NewJWTUtil(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: -1})

	token, err := util.GenerateToken(1, "")
	require.NoError(t, err)

	_, err = util.ValidateToken(token)
	require.Error(t, err)
}
