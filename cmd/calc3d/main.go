package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/Simplici0/calc3d/internal/bootstrap"
	"github.com/Simplici0/calc3d/internal/config"
	"github.com/Simplici0/calc3d/internal/logging"
	"github.com/Simplici0/calc3d/internal/settings"
)

const envFileFlagName = "env-file"

func main() {
	if err := buildApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "calc3d:", err)
		os.Exit(1)
	}
}

func buildApp() *cli.App {
	app := cli.NewApp()
	app.Name = "calc3d"
	app.Usage = "price 3D print jobs from the command line"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  envFileFlagName,
			Value: ".env",
			Usage: "dotenv file read before the environment",
		},
	}
	app.Commands = []cli.Command{
		Quote(),
		Settings(),
		Migrate(),
	}
	return app
}

// loadEnv reads the configuration and builds the logger for a command.
func loadEnv(c *cli.Context) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(c.GlobalString(envFileFlagName))
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.IsDev())
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

// withRepository opens the configured settings backend for the duration of fn.
func withRepository(c *cli.Context, fn func(ctx context.Context, repo *settings.Repository) error) error {
	cfg, logger, err := loadEnv(c)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open settings store: %w", err)
	}
	defer store.Close()

	return fn(ctx, settings.NewRepository(store, logger))
}
