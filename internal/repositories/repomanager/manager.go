package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/filesify/internal/cryptox"
	"github.com/dmitrijs2005/filesify/internal/dbx"
	"github.com/dmitrijs2005/filesify/internal/logging"
	"github.com/dmitrijs2005/filesify/internal/repositories/records"
)

type RepositoryManager interface {
	Dialect() dbx.Dialect
	RunMigrations(context.Context, *sql.DB) error
	Records(db dbx.DBTX, table string, codec cryptox.Codec) (records.Repository, error)
}

// New returns the manager for the dialect. Migration output goes to logger.
func New(d dbx.Dialect, logger logging.Logger) (RepositoryManager, error) {
	switch d {
	case dbx.SQLite:
		return NewSQLiteRepositoryManager(logger), nil
	case dbx.Postgres:
		return NewPostgresRepositoryManager(logger), nil
	default:
		_, err := dbx.ParseDialect(string(d))
		return nil, err
	}
}
