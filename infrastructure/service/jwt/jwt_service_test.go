package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatlens/chatlens/application/port/outbound"
)

func newTestService(t *testing.T, ttl time.Duration) *JWTService {
	t.Helper()
	service, err := NewJWTService("test-secret-key-for-unit-tests", "chatlens", ttl)
	require.NoError(t, err)
	return service
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService("", "chatlens", time.Minute)
	assert.Error(t, err)
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	service := newTestService(t, 15*time.Minute)

	token, err := service.GenerateAccessToken(outbound.TokenClaims{
		UserID: "user-1",
		Email:  "analyst@chatlens.io",
		Role:   "analyst",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "analyst@chatlens.io", claims.Email)
	assert.Equal(t, "analyst", claims.Role)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	service := newTestService(t, -time.Minute)

	token, err := service.GenerateAccessToken(outbound.TokenClaims{UserID: "user-1"})
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	service := newTestService(t, 15*time.Minute)
	other, err := NewJWTService("a-completely-different-secret", "chatlens", 15*time.Minute)
	require.NoError(t, err)

	token, err := service.GenerateAccessToken(outbound.TokenClaims{UserID: "user-1"})
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	service := newTestService(t, 15*time.Minute)

	_, err := service.ValidateAccessToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateRefreshToken_Unique(t *testing.T) {
	service := newTestService(t, 15*time.Minute)

	first, err := service.GenerateRefreshToken()
	require.NoError(t, err)
	second, err := service.GenerateRefreshToken()
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
