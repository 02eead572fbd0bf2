// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment variables and command-line
// flags, applied in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/dbx"
)

// Config holds runtime settings for the todokeeper server.
//
// Fields:
//   - EndpointAddrGRPC / EndpointAddrHTTP: bind addresses of the two transports.
//   - DatabaseDriver: "pgx" (PostgreSQL) or "sqlite" (embedded, file based).
//   - DatabaseDSN: connection string for the selected driver.
//   - SecretKey / SigningAlgorithm: HMAC key and algorithm for access tokens.
//     Do not use the default key in prod.
//   - AccessTokenValidityDuration: access token lifetime.
//   - BcryptCost: work factor of password hashes.
//   - DefaultPageSize / MaxPageSize: listing window when limit is omitted,
//     and the largest accepted limit.
type Config struct {
	EndpointAddrGRPC            string        `env:"GRPC_ADDR"`
	EndpointAddrHTTP            string        `env:"HTTP_ADDR"`
	DatabaseDriver              string        `env:"DATABASE_DRIVER"`
	DatabaseDSN                 string        `env:"DATABASE_DSN"`
	SecretKey                   string        `env:"SECRET_KEY"`
	SigningAlgorithm            string        `env:"ALGORITHM"`
	AccessTokenValidityDuration time.Duration `env:"ACCESS_TOKEN_EXPIRE"`
	BcryptCost                  int           `env:"BCRYPT_COST"`
	LogLevel                    string        `env:"LOG_LEVEL"`
	DefaultPageSize             int           `env:"DEFAULT_PAGE_SIZE"`
	MaxPageSize                 int           `env:"MAX_PAGE_SIZE"`
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.EndpointAddrHTTP = ":8000"
	c.DatabaseDriver = string(dbx.SQLite)
	c.DatabaseDSN = "data/todokeeper.db"
	c.SecretKey = "secretKey"
	c.SigningAlgorithm = "HS256"
	c.AccessTokenValidityDuration = 30 * time.Minute
	c.BcryptCost = 10
	c.LogLevel = "info"
	c.DefaultPageSize = 100
	c.MaxPageSize = 1000
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if _, err := dbx.ParseDialect(c.DatabaseDriver); err != nil {
		errs = append(errs, err)
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database dsn is empty"))
	}
	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is empty"))
	}
	if c.AccessTokenValidityDuration <= 0 {
		errs = append(errs, fmt.Errorf("access token validity must be positive, got %s", c.AccessTokenValidityDuration))
	}
	if c.DefaultPageSize <= 0 || c.MaxPageSize < c.DefaultPageSize {
		errs = append(errs, fmt.Errorf("page sizes must satisfy 0 < default (%d) <= max (%d)", c.DefaultPageSize, c.MaxPageSize))
	}
	return errors.Join(errs...)
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, from TODOKEEPER_* environment variables and
// finally from command-line flags.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
