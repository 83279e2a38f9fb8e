// Package config loads server settings from the environment (optionally
// seeded from a .env file by the caller).
package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

// Store drivers accepted in DB_DRIVER.
const (
	DriverMemory   = "memory"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds runtime settings for the auth service.
type Config struct {
	Port     string `env:"PORT"      envDefault:"5001"`
	Env      string `env:"ENV"       envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DB DBConfig `envPrefix:"DB_"`

	BcryptCost       int      `env:"BCRYPT_COST"        envDefault:"10"`
	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envDefault:"*" envSeparator:","`

	// RedactListingPassword blanks the password hash in /auth/users responses.
	// Off by default: listings return full records.
	RedactListingPassword bool `env:"LISTING_REDACT_PASSWORD" envDefault:"false"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// DBConfig selects and locates the user store.
type DBConfig struct {
	Driver       string        `env:"DRIVER"        envDefault:"memory"`
	DSN          string        `env:"DSN"`
	Host         string        `env:"HOST"          envDefault:"127.0.0.1"`
	Port         string        `env:"PORT"`
	User         string        `env:"USER"`
	Pass         string        `env:"PASS"`
	Name         string        `env:"NAME"          envDefault:"pixiechat"`
	SkipSchema   bool          `env:"SKIP_SCHEMA"`
	ConnectRetry time.Duration `env:"CONNECT_RETRY" envDefault:"5s"`
}

// Load parses the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	switch c.DB.Driver {
	case DriverMemory, DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d (got %d)", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	return nil
}

// IsProduction reports whether ENV is "production".
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// ListenAddr is the address handed to fiber.App.Listen.
func (c Config) ListenAddr() string {
	return ":" + c.Port
}

// DriverName is the database/sql driver registered for the configured store.
func (d DBConfig) DriverName() string {
	if d.Driver == DriverPostgres {
		return "pgx"
	}
	return d.Driver
}

// DataSourceName returns DSN when set, otherwise builds one from the parts.
func (d DBConfig) DataSourceName() string {
	if d.DSN != "" {
		return d.DSN
	}
	switch d.Driver {
	case DriverMySQL:
		port := d.Port
		if port == "" {
			port = "3306"
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4,utf8",
			d.User, d.Pass, net.JoinHostPort(d.Host, port), d.Name)
	case DriverPostgres:
		port := d.Port
		if port == "" {
			port = "5432"
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(d.User, d.Pass),
			Host:     net.JoinHostPort(d.Host, port),
			Path:     "/" + d.Name,
			RawQuery: "sslmode=disable",
		}
		return u.String()
	case DriverSQLite:
		return "file:" + d.Name + ".db?_pragma=busy_timeout(5000)"
	}
	return ""
}
