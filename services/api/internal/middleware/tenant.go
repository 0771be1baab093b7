package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/ibondarenko1/hipaa-saas/pkg/logger"
)

// TenantContextKey is the context key for the resolved tenant ID.
const TenantContextKey ContextKey = "tenant_id"

// Tenant returns middleware that resolves the tenant from the token claims.
// Every API route below this middleware is tenant-scoped.
func Tenant(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r.Context())
			if claims == nil {
				http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
				return
			}

			tenantID, err := uuid.Parse(claims.TenantID)
			if err != nil {
				log.Warn("token carries no valid tenant", "subject", claims.Subject)
				http.Error(w, `{"error": "no tenant associated with token"}`, http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), TenantContextKey, tenantID)
			ctx = logger.SetContextValue(ctx, logger.TenantIDKey, tenantID.String())

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetTenantID returns the tenant ID from context. The zero UUID means the
// tenant middleware did not run.
func GetTenantID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(TenantContextKey).(uuid.UUID)
	return id
}
