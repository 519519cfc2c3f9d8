// Package bootstrap opens the settings backend selected by the configuration.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Simplici0/calc3d/internal/config"
	"github.com/Simplici0/calc3d/internal/db"
	"github.com/Simplici0/calc3d/internal/migrations"
	"github.com/Simplici0/calc3d/internal/seed"
	"github.com/Simplici0/calc3d/internal/settings"
)

// Store is an open settings backend and the function releasing it.
type Store struct {
	settings.Store
	Close func() error
}

// OpenStore opens, migrates and seeds the configured settings backend.
func OpenStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Store, error) {
	var (
		store   settings.Store
		closeFn = func() error { return nil }
	)

	switch cfg.SettingsBackend {
	case config.BackendSQLite:
		database, err := db.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, err
		}
		if cfg.MigrateOnStart {
			if err := migrations.Up(ctx, database); err != nil {
				database.Close()
				return nil, err
			}
		}
		store, closeFn = settings.NewSQLiteStore(database), database.Close

	case config.BackendRedis:
		rs := settings.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rs.Ping(ctx); err != nil {
			rs.Close()
			return nil, err
		}
		store, closeFn = rs, rs.Close

	case config.BackendMemory:
		store = settings.NewMemoryStore()

	default:
		return nil, fmt.Errorf("unsupported settings backend %q", cfg.SettingsBackend)
	}

	stats, err := seed.Run(ctx, store, time.Now())
	if err != nil {
		closeFn()
		return nil, fmt.Errorf("seed settings: %w", err)
	}
	logger.Info("settings backend ready",
		zap.String("backend", cfg.SettingsBackend),
		zap.Int("seeded", stats.Inserts),
	)

	return &Store{Store: store, Close: closeFn}, nil
}
