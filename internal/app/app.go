// Package app wires configuration, logging, storage, the model registry and
// the admin site into one value the command tree works with.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/filesify/internal/admin"
	"github.com/dmitrijs2005/filesify/internal/apps"
	"github.com/dmitrijs2005/filesify/internal/config"
	"github.com/dmitrijs2005/filesify/internal/cryptox"
	"github.com/dmitrijs2005/filesify/internal/dbx"
	"github.com/dmitrijs2005/filesify/internal/filesify"
	"github.com/dmitrijs2005/filesify/internal/logging"
	"github.com/dmitrijs2005/filesify/internal/repositories/repomanager"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	logCloser io.Closer
	db        *sql.DB
	repos     repomanager.RepositoryManager
	registry  *apps.Registry
	signals   *apps.Signals
	configs   []apps.AppConfig
	manager   *filesify.Manager
	site      *admin.Site
	out       io.Writer
}

// Options carries what New needs besides the config.
type Options struct {
	// Out receives command progress lines. Defaults to os.Stdout.
	Out io.Writer
	// LogOutput overrides where logs go when no log file is configured.
	LogOutput io.Writer
}

// New builds the application. Models are declared and registered here, so a
// missing passphrase fails at startup with filesify.ErrEncryptionUnavailable.
func New(ctx context.Context, c *config.Config, opts Options) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	logger, closer, err := logging.New(logging.Options{
		Level:     c.LogLevel,
		Format:    c.LogFormat,
		File:      c.LogFile,
		MaxSizeMB: c.LogMaxSizeMB,
		MaxFiles:  c.LogMaxFiles,
		Output:    opts.LogOutput,
	})
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	a := &App{
		config:    c,
		logger:    logger,
		logCloser: closer,
		registry:  apps.NewRegistry(),
		signals:   &apps.Signals{},
		site:      admin.NewSite(),
		out:       out,
	}

	if err := a.init(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	dialect, err := dbx.ParseDialect(a.config.DatabaseDriver)
	if err != nil {
		return err
	}

	if a.repos, err = repomanager.New(dialect, a.logger.With("module", "migrations")); err != nil {
		return err
	}

	if a.db, err = dbx.Open(ctx, dialect, a.config.DatabaseDSN); err != nil {
		return fmt.Errorf("db init error: %w", err)
	}

	var codec cryptox.Codec
	if a.config.EncryptionPassphrase != "" {
		aes, err := cryptox.NewAESCodecFromPassphrase(a.config.EncryptionPassphrase, a.config.EncryptionSalt)
		if err != nil {
			return fmt.Errorf("codec init error: %w", err)
		}
		codec = aes
	}

	configModel := newConfigModel()
	secretModel, err := newSecretModel(codec)
	if err != nil {
		return err
	}

	for _, m := range []apps.Model{filesify.Base, configModel, secretModel, schemaVersion{}} {
		if err := a.registry.Register(m); err != nil {
			return err
		}
	}
	for _, m := range []*filesify.Model{configModel, secretModel} {
		if err := a.site.Register(m, admin.DefaultModelAdmin()); err != nil {
			return err
		}
	}

	a.manager = filesify.NewManager(a.db, a.repos, a.registry, a.logger.With("module", "filesify"))

	a.configs = []apps.AppConfig{
		coreAppConfig{},
		&filesAppConfig{
			PostMigrateHook: filesify.PostMigrateHook{LimitToModels: a.config.LimitToModels},
			manager:         a.manager,
			out:             a.out,
		},
	}
	return apps.Populate(ctx, a.signals, a.configs...)
}

func (a *App) Config() *config.Config     { return a.config }
func (a *App) Logger() logging.Logger     { return a.logger }
func (a *App) Manager() *filesify.Manager { return a.manager }
func (a *App) Registry() *apps.Registry   { return a.registry }
func (a *App) Signals() *apps.Signals     { return a.signals }
func (a *App) Site() *admin.Site          { return a.site }
func (a *App) Out() io.Writer             { return a.out }

// Migrate applies pending migrations and then sends post-migrate once per
// installed app, in installation order.
func (a *App) Migrate(ctx context.Context) error {
	a.logger.Info(ctx, "applying migrations", "dialect", string(a.repos.Dialect()))
	if err := a.repos.RunMigrations(ctx, a.db); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}
	for _, c := range a.configs {
		if err := a.signals.PostMigrate.Send(ctx, c.Label()); err != nil {
			return err
		}
	}
	return nil
}

// Model resolves "app.Model" to a file-backed model.
func (a *App) Model(name string) (*filesify.Model, error) {
	return a.manager.ResolveModel(name)
}

// ServeAdmin runs the admin listing until ctx is cancelled or the process
// receives SIGINT/SIGTERM.
func (a *App) ServeAdmin(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.initSignalHandler(ctx, cancel)

	srv := admin.NewServer(a.config.AdminAddr, a.site, a.manager, a.logger, a.config.AdminSecret)
	return srv.Run(ctx)
}

func (a *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Close releases the database and the log file.
func (a *App) Close() error {
	var errs []error
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	if a.logCloser != nil {
		errs = append(errs, a.logCloser.Close())
	}
	return errors.Join(errs...)
}
