package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Simplici0/calc3d/internal/settings"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Skipped int
}

// Run writes the default settings records that are missing from store.
// Existing records are left untouched, even when they no longer match the
// current schema; the repository falls back to defaults for those on load.
func Run(ctx context.Context, store settings.Store, now time.Time) (Stats, error) {
	records, err := settings.DefaultRecords(now)
	if err != nil {
		return Stats{}, fmt.Errorf("build default settings: %w", err)
	}

	stats := Stats{}
	for _, rec := range records {
		inserted, err := ensureRecord(ctx, store, rec)
		if err != nil {
			return stats, err
		}
		if inserted {
			stats.Inserts++
		} else {
			stats.Skipped++
		}
	}

	return stats, nil
}

func ensureRecord(ctx context.Context, store settings.Store, rec settings.Record) (bool, error) {
	_, err := store.Get(ctx, rec.Key)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, settings.ErrNotFound) {
		return false, fmt.Errorf("check %s existence: %w", rec.Key, err)
	}

	if err := store.Put(ctx, rec); err != nil {
		return false, fmt.Errorf("insert default %s: %w", rec.Key, err)
	}
	return true, nil
}
