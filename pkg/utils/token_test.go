package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	raw, err := GenerateToken(42, 7, "manager")
	require.NoError(t, err)

	token, err := ValidateToken(raw)
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, float64(42), claims["collaborator_id"])
	require.Equal(t, float64(7), claims["salon_id"])
	require.Equal(t, "manager", claims["role"])
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	raw, err := GenerateToken(42, 7, "staff")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "other-secret")
	token, err := ValidateToken(raw)
	require.Error(t, err)
	require.False(t, token != nil && token.Valid)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	require.True(t, CheckPassword("hunter22", hash))
	require.False(t, CheckPassword("hunter23", hash))
}

func TestStringToUint64(t *testing.T) {
	require.Equal(t, uint64(123), StringToUint64("123"))
	require.Zero(t, StringToUint64("abc"))
	require.Zero(t, StringToUint64(""))
}
