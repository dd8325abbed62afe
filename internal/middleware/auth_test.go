package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XylonMarkLabs/justpos-backend/internal/models"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pw")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pw", hash)

	assert.NoError(t, CheckPassword("s3cret-pw", hash))
	assert.Error(t, CheckPassword("wrong-pw", hash))
}

func TestGenerateJWTRoundTrip(t *testing.T) {
	user := models.User{ID: 7, Username: "cashier1", Role: models.RoleCashier}

	signed, expiresAt, err := GenerateJWT(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(TokenTTL), expiresAt, time.Minute)

	token, err := jwt.ParseWithClaims(signed, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret(), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(*Claims)
	require.True(t, ok)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "cashier1", claims.Username)
	assert.Equal(t, models.RoleCashier, claims.Role)
}
