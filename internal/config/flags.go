package config

import (
	"github.com/spf13/pflag"
)

// BindFlags registers the persistent command-line flags on fs, using the
// current values of c as defaults so that JSON values survive unless a flag
// is given explicitly. Parsing fs writes straight into c.
//
// Supported flags:
//
//	-c, --config string        JSON config file (read earlier via flagx)
//	    --driver string        database driver: sqlite | pgx
//	-d, --dsn string           database DSN
//	    --passphrase string    passphrase for encrypted content
//	    --salt string          key derivation salt
//	-a, --admin-addr string    admin listen address
//	-s, --admin-secret string  admin token signing secret
//	    --admin-token-ttl dur  admin token lifetime
//	    --limit-models list    models regenerated after migrate
//	    --log-level string     debug | info | warn | error
//	    --log-format string    text | json
//	    --log-file string      rotate logs into this file
func BindFlags(fs *pflag.FlagSet, c *Config) {
	// consumed by flagx.JsonConfigFlags before the tree parses; declared so
	// that the parser accepts it
	fs.StringP("config", "c", "", "path to JSON config file")

	fs.StringVar(&c.DatabaseDriver, "driver", c.DatabaseDriver, "database driver (sqlite or pgx)")
	fs.StringVarP(&c.DatabaseDSN, "dsn", "d", c.DatabaseDSN, "database DSN")
	fs.StringVar(&c.EncryptionPassphrase, "passphrase", c.EncryptionPassphrase, "passphrase for encrypted content")
	fs.StringVar(&c.EncryptionSalt, "salt", c.EncryptionSalt, "salt for key derivation")
	fs.StringVarP(&c.AdminAddr, "admin-addr", "a", c.AdminAddr, "admin listen address")
	fs.StringVarP(&c.AdminSecret, "admin-secret", "s", c.AdminSecret, "admin token signing secret")
	fs.DurationVar(&c.AdminTokenTTL, "admin-token-ttl", c.AdminTokenTTL, "admin token lifetime")
	fs.StringSliceVar(&c.LimitToModels, "limit-models", c.LimitToModels, "models to regenerate after migrate, like app.Config,app.Secret")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug/info/warn/error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "text/json")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "write rotated logs to this file")
}
