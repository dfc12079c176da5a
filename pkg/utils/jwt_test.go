package utils_test

import (
	"testing"
	"time"

	"room-rental-backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestJWT() {
	utils.InitJWT("test-access-secret", "test-refresh-secret", 15*time.Minute, 168*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	initTestJWT()

	token, err := utils.GenerateAccessToken("uid-1", "tenant", "103")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := utils.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.UID)
	assert.Equal(t, "tenant", claims.Role)
	assert.Equal(t, "103", claims.TenantRoomID)
}

func TestAccessTokenWithoutBinding(t *testing.T) {
	initTestJWT()

	token, err := utils.GenerateAccessToken("uid-2", "landlord", "")
	require.NoError(t, err)

	claims, err := utils.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "landlord", claims.Role)
	assert.Empty(t, claims.TenantRoomID)
}

func TestValidateRejectsGarbage(t *testing.T) {
	initTestJWT()

	_, err := utils.ValidateAccessToken("not-a-token")
	assert.Error(t, err)
}

func TestRefreshTokenHashing(t *testing.T) {
	token, err := utils.GenerateRefreshToken()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	h1 := utils.HashRefreshToken(token)
	h2 := utils.HashRefreshToken(token)
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, token, h1)
}
