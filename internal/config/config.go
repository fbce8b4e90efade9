// Package config handles configuration for filesify, including defaults,
// JSON overlay, and command-line flags.
package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the filesify tool.
//
// Fields:
//   - DatabaseDriver: "sqlite" (modernc) or "pgx" (PostgreSQL).
//   - DatabaseDSN: driver-specific DSN; for sqlite a file path.
//   - EncryptionPassphrase / EncryptionSalt: key material for encrypted
//     content. A passphrase is required while an encrypted model is
//     registered; app.New fails without one.
//   - AdminAddr / AdminSecret / AdminTokenTTL: admin HTTP listing.
//   - LimitToModels: models regenerated after migrations; empty means all.
//   - Log*: level, format (text/json), optional rotating file.
type Config struct {
	DatabaseDriver       string
	DatabaseDSN          string
	EncryptionPassphrase string
	EncryptionSalt       string
	AdminAddr            string
	AdminSecret          string
	AdminTokenTTL        time.Duration
	LimitToModels        []string
	LogLevel             string
	LogFormat            string
	LogFile              string
	LogMaxSizeMB         int
	LogMaxFiles          int
}

// LoadDefaults populates Config with development defaults.
// NOTE: the passphrase and admin secret are insecure and must be overridden
// in production.
func (c *Config) LoadDefaults() {
	c.DatabaseDriver = DriverSQLite
	c.DatabaseDSN = "filesify.db"
	c.EncryptionPassphrase = "filesify-dev-passphrase"
	c.EncryptionSalt = "filesify"
	c.AdminAddr = "127.0.0.1:8000"
	c.AdminSecret = "secretKey"
	c.AdminTokenTTL = time.Hour
	c.LimitToModels = nil
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.LogFile = ""
	c.LogMaxSizeMB = 10
	c.LogMaxFiles = 5
}

// LoadConfig builds a Config by applying defaults and then overlaying values
// from an optional JSON file named by -c/--config in args. Command-line flags
// are applied later by the command tree through BindFlags.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%w: unsupported database driver %q", ErrInvalidConfig, c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("%w: empty database dsn", ErrInvalidConfig)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unsupported log format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.AdminTokenTTL <= 0 {
		return fmt.Errorf("%w: admin token ttl must be positive", ErrInvalidConfig)
	}
	return nil
}
