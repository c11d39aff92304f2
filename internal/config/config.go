package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MigrationsPath  string
}

type StorageConfig struct {
	// Dir is the local directory backing the photos bucket.
	Dir string
	// PublicBaseURL prefixes object names to build the URL handed to clients.
	PublicBaseURL string
}

type Config struct {
	App struct {
		Port string
	}
	Postgres PostgresConfig
	Storage  StorageConfig
}

// DatabaseConfigured reports whether enough Postgres settings are present to
// open a pool. When false the service still starts, but every data-touching
// route answers with a configuration error.
func (c *Config) DatabaseConfigured() bool {
	return c.Postgres.Host != "" && c.Postgres.User != "" && c.Postgres.DBName != ""
}

func Load(path string) (*Config, error) {
	if path != "" {
		err := godotenv.Load(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{}
	cfg.App.Port = os.Getenv("APP_PORT")
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}

	cfg.Postgres.Host = os.Getenv("DB_HOST")
	cfg.Postgres.Port = os.Getenv("DB_PORT")
	if cfg.Postgres.Port == "" {
		cfg.Postgres.Port = "5432"
	}
	cfg.Postgres.User = os.Getenv("DB_USER")
	cfg.Postgres.Password = os.Getenv("DB_PASSWORD")
	cfg.Postgres.DBName = os.Getenv("DB_NAME")
	cfg.Postgres.SSLMode = os.Getenv("DB_SSLMODE")
	if cfg.Postgres.SSLMode == "" {
		cfg.Postgres.SSLMode = "disable"
	}
	cfg.Postgres.MaxConns = 10
	cfg.Postgres.MinConns = 2
	cfg.Postgres.MaxConnLifetime = time.Hour
	cfg.Postgres.MigrationsPath = os.Getenv("MIGRATIONS_PATH")
	if cfg.Postgres.MigrationsPath == "" {
		cfg.Postgres.MigrationsPath = "migrations"
	}

	cfg.Storage.Dir = os.Getenv("UPLOAD_DIR")
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = "uploads"
	}
	cfg.Storage.PublicBaseURL = os.Getenv("PUBLIC_BASE_URL")
	if cfg.Storage.PublicBaseURL == "" {
		cfg.Storage.PublicBaseURL = "/photos"
	}

	return cfg, nil
}
