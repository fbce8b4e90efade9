package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/filesify/internal/flagx"
	"github.com/dmitrijs2005/filesify/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "1h" and integer nanoseconds are accepted.
//
// Pointer fields distinguish "absent" from "zero" so a partial file only
// overrides what it names.
type JsonConfig struct {
	DatabaseDriver       *string         `json:"database_driver"`
	DatabaseDSN          *string         `json:"database_dsn"`
	EncryptionPassphrase *string         `json:"encryption_passphrase"`
	EncryptionSalt       *string         `json:"encryption_salt"`
	AdminAddr            *string         `json:"admin_addr"`
	AdminSecret          *string         `json:"admin_secret"`
	AdminTokenTTL        *timex.Duration `json:"admin_token_ttl"`
	LimitToModels        []string        `json:"limit_to_models"`
	LogLevel             *string         `json:"log_level"`
	LogFormat            *string         `json:"log_format"`
	LogFile              *string         `json:"log_file"`
	LogMaxSizeMB         *int            `json:"log_max_size_mb"`
	LogMaxFiles          *int            `json:"log_max_files"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/--config flag in args into config. Without the flag nothing happens.
//
// limit_to_models must be a JSON array of "app.Model" strings; any other
// JSON type is rejected here.
func parseJson(config *Config, args []string) error {
	jsonConfigFile := flagx.JsonConfigFlags(args)

	// nothing to load
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config %s: %w", jsonConfigFile, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, jsonConfigFile, err)
	}

	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.EncryptionPassphrase, c.EncryptionPassphrase)
	setString(&config.EncryptionSalt, c.EncryptionSalt)
	setString(&config.AdminAddr, c.AdminAddr)
	setString(&config.AdminSecret, c.AdminSecret)
	if c.AdminTokenTTL != nil {
		config.AdminTokenTTL = c.AdminTokenTTL.Duration
	}
	if c.LimitToModels != nil {
		config.LimitToModels = c.LimitToModels
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogFile, c.LogFile)
	if c.LogMaxSizeMB != nil {
		config.LogMaxSizeMB = *c.LogMaxSizeMB
	}
	if c.LogMaxFiles != nil {
		config.LogMaxFiles = *c.LogMaxFiles
	}

	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
