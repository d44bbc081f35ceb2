package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradelink/config"
	"tradelink/internal/domain/entity"
)

func newTestService(t *testing.T) *jwtService {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-access-secret"
	cfg.SecretKey.Refresh = "test-refresh-secret"

	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	return svc.(*jwtService)
}

func TestNewJWTService_RequiresSecrets(t *testing.T) {
	_, err := NewJWTService(&config.Config{})

	assert.Error(t, err)
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestService(t)
	userID := uuid.New()

	access, refresh, err := svc.GenerateTokens(userID, entity.RoleWholesaler)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	claims, err := svc.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, entity.RoleWholesaler, claims.Role)
	assert.Equal(t, "access", claims.Type)
}

func TestJWTService_RefreshTokenRejectedAsAccess(t *testing.T) {
	svc := newTestService(t)

	_, refresh, err := svc.GenerateTokens(uuid.New(), entity.RoleRetailer)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(refresh)
	assert.Error(t, err, "a refresh token is signed with a different secret and carries no role")
}

func TestJWTService_TamperedTokenRejected(t *testing.T) {
	svc := newTestService(t)

	access, _, err := svc.GenerateTokens(uuid.New(), entity.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(access + "x")
	assert.Error(t, err)

	_, err = svc.ValidateAccessToken("not-a-token")
	assert.Error(t, err)
}

func TestJWTService_RefreshTokenDuration(t *testing.T) {
	svc := newTestService(t)

	assert.Equal(t, 7*24*time.Hour, svc.GetRefreshTokenDuration())
}

func TestJWTService_WrongSecretRejected(t *testing.T) {
	svc := newTestService(t)

	other := &config.Config{}
	other.SecretKey.Access = "different-secret"
	other.SecretKey.Refresh = "different-refresh"
	otherSvc, err := NewJWTService(other)
	require.NoError(t, err)

	access, _, err := otherSvc.GenerateTokens(uuid.New(), entity.RoleRetailer)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(access)
	assert.Error(t, err)
}
