package seed

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/Simplici0/calc3d/internal/db"
	"github.com/Simplici0/calc3d/internal/migrations"
	"github.com/Simplici0/calc3d/internal/pricing"
	"github.com/Simplici0/calc3d/internal/settings"
)

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(ctx, dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(ctx, database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	store := settings.NewSQLiteStore(database)
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	for i := 0; i < 10; i++ {
		stats, err := Run(ctx, store, now)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != 2 {
				t.Fatalf("expected 2 inserts in first run, got %d", stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 || stats.Skipped != 2 {
			t.Fatalf("expected 0 inserts and 2 skips in iteration %d, got %+v", i, stats)
		}
	}

	assertCount(t, database, 2)

	repo := settings.NewRepository(store, nil)
	if got := repo.PrintSettings(ctx); got != pricing.DefaultPrintSettings() {
		t.Fatalf("expected default print settings, got %+v", got)
	}
}

func TestRunKeepsExistingRecords(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := settings.NewMemoryStore()
	repo := settings.NewRepository(store, nil)

	custom := pricing.MaterialSettings{SpoolCost: 150, SpoolWeightGrams: 750}
	if err := repo.SaveMaterialSettings(ctx, custom); err != nil {
		t.Fatalf("save material: %v", err)
	}

	stats, err := Run(ctx, store, time.Now())
	if err != nil {
		t.Fatalf("run seed: %v", err)
	}
	if stats.Inserts != 1 || stats.Skipped != 1 {
		t.Fatalf("expected 1 insert and 1 skip, got %+v", stats)
	}
	if got := repo.MaterialSettings(ctx); got != custom {
		t.Fatalf("seed overwrote material settings: %+v", got)
	}
}

func assertCount(t *testing.T, database *sql.DB, expected int) {
	t.Helper()

	var count int
	if err := database.QueryRow(`SELECT COUNT(*) FROM settings`).Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != expected {
		t.Fatalf("expected count %d, got %d", expected, count)
	}
}
