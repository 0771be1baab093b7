package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibondarenko1/hipaa-saas/pkg/auth"
	"github.com/ibondarenko1/hipaa-saas/pkg/config"
	"github.com/ibondarenko1/hipaa-saas/pkg/logger"
)

func testTokenManager(t *testing.T) *auth.TokenManager {
	t.Helper()

	tm, err := auth.NewTokenManager(config.AuthConfig{
		JWTSecret:      "test-secret-test-secret-test-secret",
		AccessTokenTTL: time.Hour,
		Issuer:         "hipaa-saas-test",
	})
	require.NoError(t, err)
	return tm
}

func protectedHandler(t *testing.T, tm *auth.TokenManager) (http.Handler, *uuid.UUID) {
	t.Helper()

	log := logger.New("error", "text")
	var seenTenant uuid.UUID

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTenant = GetTenantID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	return Auth(tm, log)(Tenant(log)(inner)), &seenTenant
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	handler, _ := protectedHandler(t, testTokenManager(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	handler, _ := protectedHandler(t, testTokenManager(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc123")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	handler, _ := protectedHandler(t, testTokenManager(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthAndTenantPassClaimsThrough(t *testing.T) {
	tm := testTokenManager(t)
	handler, seenTenant := protectedHandler(t, tm)

	tenantID := uuid.New()
	token, err := tm.Issue("user-1", tenantID.String(), "user@example.com", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, tenantID, *seenTenant)
}

func TestTenantRejectsNonUUIDTenant(t *testing.T) {
	tm := testTokenManager(t)
	handler, _ := protectedHandler(t, tm)

	token, err := tm.Issue("user-1", "not-a-uuid", "user@example.com", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
