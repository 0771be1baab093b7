package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibondarenko1/hipaa-saas/pkg/config"
)

func testConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:      "test-secret",
		AccessTokenTTL: time.Hour,
		Issuer:         "hipaa-saas",
	}
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	_, err := NewTokenManager(config.AuthConfig{})
	assert.Error(t, err)
}

func TestIssueAndVerify(t *testing.T) {
	m, err := NewTokenManager(testConfig())
	require.NoError(t, err)

	token, err := m.Issue("user-1", "tenant-1", "admin@example.com", "internal_user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "tenant-1", claims.TenantID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "internal_user", claims.Role)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	m1, err := NewTokenManager(testConfig())
	require.NoError(t, err)

	other := testConfig()
	other.JWTSecret = "other-secret"
	m2, err := NewTokenManager(other)
	require.NoError(t, err)

	token, err := m1.Issue("user-1", "tenant-1", "", "")
	require.NoError(t, err)

	_, err = m2.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	cfg := testConfig()
	cfg.AccessTokenTTL = -time.Minute
	// Constructor replaces non-positive TTLs, so build the manager directly
	m := &TokenManager{secret: []byte(cfg.JWTSecret), issuer: cfg.Issuer, ttl: cfg.AccessTokenTTL}

	token, err := m.Issue("user-1", "", "", "")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("ChangeMe123!")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, CheckPassword(hash, "ChangeMe123!"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
