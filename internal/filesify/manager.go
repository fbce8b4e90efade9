package filesify

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/filesify/internal/apps"
	"github.com/dmitrijs2005/filesify/internal/common"
	"github.com/dmitrijs2005/filesify/internal/dbx"
	"github.com/dmitrijs2005/filesify/internal/logging"
	"github.com/dmitrijs2005/filesify/internal/models"
	"github.com/dmitrijs2005/filesify/internal/repositories/records"
	"github.com/dmitrijs2005/filesify/internal/repositories/repomanager"
)

var (
	// ErrInvalidModelPath is returned for names not in "app.Model" form.
	ErrInvalidModelPath = fmt.Errorf("%w: model must be given as app_label.ModelName", common.ErrUsage)
	// ErrNotFilesifyModel is returned for resolved models that are not
	// concrete file-backed models.
	ErrNotFilesifyModel = fmt.Errorf("%w: not a file-backed model", common.ErrUsage)
)

// Manager runs the persist-then-sync sequence for file-backed models.
type Manager struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	registry *apps.Registry
	logger   logging.Logger
}

func NewManager(db *sql.DB, repos repomanager.RepositoryManager, registry *apps.Registry, logger logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Manager{db: db, repos: repos, registry: registry, logger: logger}
}

// Registry returns the registry the manager resolves names against.
func (m *Manager) Registry() *apps.Registry { return m.registry }

// Objects returns the repository of model bound to db.
func (m *Manager) Objects(db dbx.DBTX, model *Model) (records.Repository, error) {
	if model.abstract {
		return nil, fmt.Errorf("model %s is abstract: %w", model, ErrNotFilesifyModel)
	}
	return m.repos.Records(db, model.table, model.codec)
}

// Save persists rec in its own transaction and then writes its file.
// A file error is returned after the row has been committed.
func (m *Manager) Save(ctx context.Context, model *Model, rec *models.Record) error {
	err := dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo, err := m.Objects(tx, model)
		if err != nil {
			return err
		}
		return repo.CreateOrUpdate(ctx, rec)
	})
	if err != nil {
		return fmt.Errorf("save %s: %w", model, err)
	}

	if err := CreateFile(rec); err != nil {
		m.logger.Error(ctx, "file write failed", "model", model.String(), "id", rec.ID, "path", rec.FilePath, "err", err)
		return err
	}
	m.logger.Debug(ctx, "record saved", "model", model.String(), "id", rec.ID, "path", rec.FilePath)
	return nil
}

// Delete removes the file of rec and then its row. If the row delete fails
// the file stays removed.
func (m *Manager) Delete(ctx context.Context, model *Model, rec *models.Record) error {
	repo, err := m.Objects(m.db, model)
	if err != nil {
		return err
	}
	if err := RemoveFile(rec); err != nil {
		return err
	}
	if err := repo.Delete(ctx, rec.ID); err != nil {
		return fmt.Errorf("delete %s %s: %w", model, rec.ID, err)
	}
	m.logger.Debug(ctx, "record deleted", "model", model.String(), "id", rec.ID, "path", rec.FilePath)
	return nil
}

// Get loads one record.
func (m *Manager) Get(ctx context.Context, model *Model, id string) (*models.Record, error) {
	repo, err := m.Objects(m.db, model)
	if err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, id)
}

// List loads every record of model.
func (m *Manager) List(ctx context.Context, model *Model) ([]*models.Record, error) {
	repo, err := m.Objects(m.db, model)
	if err != nil {
		return nil, err
	}
	return repo.List(ctx)
}

// DeleteSelected deletes the records with the given ids through Delete.
// Ids that no longer exist are skipped. It returns how many were deleted.
func (m *Manager) DeleteSelected(ctx context.Context, model *Model, ids []string) (int, error) {
	deleted := 0
	for _, id := range ids {
		rec, err := m.Get(ctx, model, id)
		if errors.Is(err, common.ErrorNotFound) {
			continue
		}
		if err != nil {
			return deleted, err
		}
		if err := m.Delete(ctx, model, rec); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// AllModels returns every registered concrete file-backed model in
// registration order.
func (m *Manager) AllModels() []*Model {
	var out []*Model
	for _, model := range m.registry.Models() {
		if IsFilesifyModel(model) {
			out = append(out, model.(*Model))
		}
	}
	return out
}

// ResolveModel turns "app.Model" into a concrete file-backed model.
func (m *Manager) ResolveModel(path string) (*Model, error) {
	parts := strings.Split(path, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidModelPath, path)
	}
	model, err := m.registry.GetModel(parts[0], parts[1])
	if err != nil {
		return nil, err
	}
	if !IsFilesifyModel(model) {
		return nil, fmt.Errorf("%w: model %s is not a subclass of Filesify", ErrNotFilesifyModel, path)
	}
	return model.(*Model), nil
}

// ModelsFromArgs resolves every name before returning, so a bad name fails
// the whole call.
func (m *Manager) ModelsFromArgs(names ...string) ([]*Model, error) {
	out := make([]*Model, 0, len(names))
	for _, name := range names {
		model, err := m.ResolveModel(name)
		if err != nil {
			return nil, err
		}
		out = append(out, model)
	}
	return out, nil
}

// CreateFiles writes the file of every row of the named models, or of every
// file-backed model when no names are given. Progress goes to out.
// The first I/O error aborts the run.
func (m *Manager) CreateFiles(ctx context.Context, out io.Writer, names ...string) error {
	var targets []*Model
	if len(names) > 0 {
		var err error
		if targets, err = m.ModelsFromArgs(names...); err != nil {
			return err
		}
	} else {
		targets = m.AllModels()
	}

	for _, model := range targets {
		fmt.Fprintf(out, "Creating files for model: %s\n", model)

		recs, err := m.List(ctx, model)
		if err != nil {
			return err
		}
		for _, rec := range recs {
			fmt.Fprintf(out, "    -- Creating file: %s\n", rec)
			if err := CreateFile(rec); err != nil {
				return err
			}
		}
		m.logger.Info(ctx, "files created", "model", model.String(), "count", len(recs))
	}
	return nil
}
