//go:build integration

package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/Strob0t/CRMForge/internal/adapter/postgres"
)

// TestMigrationUpDown applies all migrations, rolls them all back, then re-applies.
// This verifies that every migration's Down section works correctly.
func TestMigrationUpDown(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("requires DATABASE_URL")
	}

	ctx := context.Background()
	const totalMigrations = 3

	if err := postgres.RunMigrations(ctx, dsn); err != nil {
		t.Fatalf("RunMigrations (up): %v", err)
	}
	if v, err := postgres.MigrationVersion(ctx, dsn); err != nil || v != totalMigrations {
		t.Fatalf("version after up = %d, %v; want %d", v, err, totalMigrations)
	}

	if err := postgres.RollbackMigrations(ctx, dsn, totalMigrations); err != nil {
		t.Fatalf("RollbackMigrations (down all): %v", err)
	}
	if v, err := postgres.MigrationVersion(ctx, dsn); err != nil || v != 0 {
		t.Fatalf("version after rollback = %d, %v; want 0", v, err)
	}

	if err := postgres.RunMigrations(ctx, dsn); err != nil {
		t.Fatalf("RunMigrations (re-up): %v", err)
	}
	if v, err := postgres.MigrationVersion(ctx, dsn); err != nil || v != totalMigrations {
		t.Fatalf("version after re-up = %d, %v; want %d", v, err, totalMigrations)
	}
}
