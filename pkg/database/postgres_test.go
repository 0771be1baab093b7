// Package database provides PostgreSQL connection management.
package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ibondarenko1/hipaa-saas/pkg/config"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.DatabaseConfig
		shouldErr bool
	}{
		{
			name: "empty URL should fail",
			cfg: config.DatabaseConfig{
				URL:             "",
				MaxOpenConns:    10,
				MaxIdleConns:    5,
				ConnMaxLifetime: time.Hour,
			},
			shouldErr: true,
		},
		{
			name: "invalid URL should fail",
			cfg: config.DatabaseConfig{
				URL:             "not-a-valid-url",
				MaxOpenConns:    10,
				MaxIdleConns:    5,
				ConnMaxLifetime: time.Hour,
			},
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			_, err := New(ctx, tt.cfg)
			if tt.shouldErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDBClose(t *testing.T) {
	t.Run("close nil pool", func(t *testing.T) {
		db := &DB{Pool: nil}
		// Should not panic
		db.Close()
	})
}

func TestTenantConnTenantID(t *testing.T) {
	tenantID := uuid.New()
	tc := &TenantConn{
		tenantID: tenantID,
	}

	if tc.TenantID() != tenantID {
		t.Errorf("TenantID() = %v, want %v", tc.TenantID(), tenantID)
	}
}

func TestTenantConnRelease(t *testing.T) {
	t.Run("release nil conn", func(t *testing.T) {
		tc := &TenantConn{conn: nil}
		// Should not panic
		tc.Release()
	})
}

// TestTransactionHelperMethods verifies transaction helper signatures.
func TestTransactionHelperMethods(t *testing.T) {
	var db *DB

	// Compile-time signature verification
	var _ func(context.Context) (pgx.Tx, error) = db.BeginTx
	var _ func(context.Context, func(pgx.Tx) error) error = db.WithTx
}

// TestDBMethodsExist verifies core DB methods exist.
func TestDBMethodsExist(t *testing.T) {
	var db *DB

	var _ func(context.Context, string, ...any) error = db.Exec
	var _ func(context.Context, string, ...any) pgx.Row = db.QueryRow
	var _ func(context.Context, string, ...any) (pgx.Rows, error) = db.Query
	var _ func(context.Context) error = db.Health
	var _ func() = db.Close
}
