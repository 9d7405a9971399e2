// Package config loads service configuration from the environment.
//
// Variables use the KYC_ prefix, e.g. KYC_DATABASE_DSN. A .env file in the
// working directory is loaded first when present; real environment variables
// always win over values from the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const prefix = "kyc"

// Config is the full service configuration.
type Config struct {
	// Port also falls back to the unprefixed PORT set by Cloud Run. No other
	// field has an unprefixed fallback.
	Port        string   `envconfig:"PORT" default:"8080"`
	LogLevel    string   `split_words:"true" default:"info"`
	CORSOrigins []string `split_words:"true"`

	Database Database
	Firebase Firebase
	DevAuth  DevAuth `split_words:"true"`
}

// Database configures the MySQL connection pool.
type Database struct {
	// DSN in go-sql-driver/mysql format. Empty selects the in-memory store.
	DSN             string
	MaxOpenConns    int           `split_words:"true" default:"10"`
	MaxIdleConns    int           `split_words:"true" default:"5"`
	ConnMaxLifetime time.Duration `split_words:"true" default:"30m"`
	MigrateOnStart  bool          `split_words:"true"`
}

// Firebase configures bearer token verification.
type Firebase struct {
	ProjectID   string `split_words:"true"`
	Credentials string
}

// DevAuth enables a single static bearer token for local development when
// Firebase is not configured.
type DevAuth struct {
	Token    string
	Identity string `default:"developer@localhost"`
}

// Load reads dotenv files and then processes the environment into a Config.
// With no files the implicit ".env" is optional; named files must exist.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if len(files) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load dotenv: %w", err)
		}
	}

	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Port == "" {
		return errors.New("config: port must not be empty")
	}
	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("config: database max open conns must be positive, got %d", c.Database.MaxOpenConns)
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("config: database max idle conns (%d) exceeds max open conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}
