package app

import (
	"context"
	"io"

	"github.com/dmitrijs2005/filesify/internal/apps"
	"github.com/dmitrijs2005/filesify/internal/cryptox"
	"github.com/dmitrijs2005/filesify/internal/filesify"
)

// Labels of the built-in apps.
const (
	FilesLabel = "app"
	CoreLabel  = "core"
)

// Built-in models. Config holds plain text files; Secret holds files whose
// content is encrypted in the database.
func newConfigModel() *filesify.Model {
	return filesify.NewModel(FilesLabel, "Config", "app_config")
}

func newSecretModel(codec cryptox.Codec) (*filesify.Model, error) {
	return filesify.NewCryptoModel(FilesLabel, "Secret", "app_secret", codec)
}

// schemaVersion is the goose bookkeeping table. It is registered so that it
// resolves by name, and is rejected by create-files as not file-backed.
type schemaVersion struct{}

func (schemaVersion) AppLabel() string  { return CoreLabel }
func (schemaVersion) ModelName() string { return "SchemaVersion" }

// filesAppConfig is the app owning the file-backed models. It regenerates
// their files after every migration.
type filesAppConfig struct {
	filesify.PostMigrateHook
	manager *filesify.Manager
	out     io.Writer
}

func (c *filesAppConfig) Label() string { return FilesLabel }

func (c *filesAppConfig) Ready(ctx context.Context, signals *apps.Signals) error {
	c.HandlePostMigrate(signals, c.Label(), c.manager, c.out)
	return nil
}

// coreAppConfig owns bookkeeping models and connects nothing.
type coreAppConfig struct{}

func (coreAppConfig) Label() string                              { return CoreLabel }
func (coreAppConfig) Ready(context.Context, *apps.Signals) error { return nil }
