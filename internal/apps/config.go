package apps

import (
	"context"
	"fmt"
)

// AppConfig describes one installed app.
type AppConfig interface {
	Label() string
	// Ready runs once the registry is populated. Apps connect signal
	// handlers here.
	Ready(ctx context.Context, signals *Signals) error
}

// Populate calls Ready on every config in order and stops at the first error.
func Populate(ctx context.Context, signals *Signals, configs ...AppConfig) error {
	for _, c := range configs {
		if err := c.Ready(ctx, signals); err != nil {
			return fmt.Errorf("app %s not ready: %w", c.Label(), err)
		}
	}
	return nil
}
