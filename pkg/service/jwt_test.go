package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "rma-system/pkg/errors"
)

func newTestJWTService(secret string) JWTService {
	return NewJWTService(secret, time.Hour, time.Hour*24, zap.NewNop())
}

func TestGenerateAndValidateTokens(t *testing.T) {
	svc := newTestJWTService("secret")

	access, refresh, err := svc.GenerateTokens(42, "admin")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	accessClaims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), accessClaims.UserID)
	assert.Equal(t, "admin", accessClaims.Role)
	assert.False(t, accessClaims.IsRefreshToken)

	refreshClaims, err := svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.True(t, refreshClaims.IsRefreshToken)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	access, _, err := newTestJWTService("secret-a").GenerateTokens(1, "user")
	require.NoError(t, err)

	_, err = newTestJWTService("secret-b").ValidateToken(access)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := newTestJWTService("secret").ValidateToken("not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := NewJWTService("secret", -time.Minute, -time.Minute, zap.NewNop())
	access, _, err := svc.GenerateTokens(1, "user")
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	assert.Error(t, err)
}

func TestTokenTTLAccessors(t *testing.T) {
	svc := NewJWTService("secret", time.Hour, time.Hour*24, zap.NewNop())
	assert.Equal(t, time.Hour, svc.GetAccessTokenTTL())
	assert.Equal(t, time.Hour*24, svc.GetRefreshTokenTTL())
}
