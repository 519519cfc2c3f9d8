package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

// Settings backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env             string `env:"APP_ENV" envDefault:"dev"`
	Port            string `env:"PORT" envDefault:"8080"`
	DBPath          string `env:"DB_PATH" envDefault:"./calc3d.db"`
	SettingsBackend string `env:"SETTINGS_BACKEND" envDefault:"sqlite"`
	RedisAddr       string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	QuoteSecret     string `env:"QUOTE_SECRET"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	MigrateOnStart  bool   `env:"MIGRATE_ON_START" envDefault:"true"`
}

// Load reads an optional dotenv file and then the environment.
// Variables already set in the environment win over the file.
func Load(dotenvPath string) (Config, error) {
	if err := loadDotEnv(dotenvPath); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsDev reports whether the app runs in the development environment.
func (c Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "development"
}

// Validate rejects values env tags cannot express.
func (c Config) Validate() error {
	switch c.SettingsBackend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("SETTINGS_BACKEND must be one of %s, %s or %s, got %q",
			BackendSQLite, BackendRedis, BackendMemory, c.SettingsBackend)
	}
	if c.SettingsBackend == BackendSQLite && c.DBPath == "" {
		return errors.New("DB_PATH is required with the sqlite settings backend")
	}
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	return nil
}

// Local development files are optional; production should use real env injection.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
