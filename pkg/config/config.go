// Package config loads process configuration from the environment, after
// merging an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Drivers accepted in DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverBolt     = "bolt"
)

// Config is the server configuration.
type Config struct {
	Port            string   `env:"PORT" envDefault:"5000"`
	LogLevel        string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string   `env:"LOG_FORMAT" envDefault:"json"`
	MaxBodyMB       int64    `env:"MAX_BODY_MB" envDefault:"50"`
	NormalizeImages bool     `env:"NORMALIZE_IMAGES" envDefault:"true"`
	CORSOrigins     []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	Database        Database
	Auth            Auth
}

// Database selects and locates the store. Connection parameters have no defaults.
type Database struct {
	Driver      string `env:"DB_DRIVER" envDefault:"postgres"`
	DSN         string `env:"DB_DSN"`
	Host        string `env:"DB_HOST"`
	Port        string `env:"DB_PORT"`
	User        string `env:"DB_USER"`
	Password    string `env:"DB_PASSWORD"`
	Name        string `env:"DB_NAME"`
	SSLMode     string `env:"DB_SSLMODE" envDefault:"disable"`
	Path        string `env:"DB_PATH"`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

// Auth is disabled unless PasswordHash is set.
type Auth struct {
	JWTSecret    string        `env:"JWT_SECRET"`
	PasswordHash string        `env:"ACCESS_PASSWORD_HASH"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
}

// Load merges ./.env (never overriding variables already set) and parses the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the configuration from the current environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Database.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the selected driver has what it needs to connect.
func (d Database) Validate() error {
	switch d.Driver {
	case DriverPostgres:
		if d.DSN != "" {
			return nil
		}
		var missing []string
		for name, v := range map[string]string{"DB_HOST": d.Host, "DB_USER": d.User, "DB_NAME": d.Name} {
			if strings.TrimSpace(v) == "" {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			slices.Sort(missing)
			return fmt.Errorf("postgres needs DB_DSN or %s", strings.Join(missing, ", "))
		}
	case DriverSQLite, DriverBolt:
		if strings.TrimSpace(d.Path) == "" {
			return fmt.Errorf("%s needs DB_PATH", d.Driver)
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", d.Driver)
	}
	return nil
}

// PostgresDSN returns DB_DSN or builds one from the individual parameters.
func (d Database) PostgresDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.SSLMode)
	if d.Port != "" {
		dsn += " port=" + d.Port
	}
	return dsn
}
