package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli"

	"github.com/Simplici0/calc3d/internal/config"
	"github.com/Simplici0/calc3d/internal/db"
	"github.com/Simplici0/calc3d/internal/migrations"
)

func Migrate() cli.Command {
	return cli.Command{
		Name:  "migrate",
		Usage: "apply pending migrations to the sqlite settings database",
		Action: func(c *cli.Context) error {
			cfg, logger, err := loadEnv(c)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if cfg.SettingsBackend != config.BackendSQLite {
				return fmt.Errorf("migrate requires SETTINGS_BACKEND=%s, got %q", config.BackendSQLite, cfg.SettingsBackend)
			}

			ctx := context.Background()
			database, err := db.Open(ctx, cfg.DBPath)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := migrations.Up(ctx, database); err != nil {
				return err
			}
			version, err := migrations.Version(ctx, database)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "schema version %d\n", version)
			return nil
		},
	}
}
