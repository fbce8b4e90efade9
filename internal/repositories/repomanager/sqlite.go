package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/filesify/internal/cryptox"
	"github.com/dmitrijs2005/filesify/internal/dbx"
	"github.com/dmitrijs2005/filesify/internal/logging"
	"github.com/dmitrijs2005/filesify/internal/migrations"
	"github.com/dmitrijs2005/filesify/internal/repositories/records"
)

// SQLiteRepositoryManager is the SQLite counterpart of PostgresRepositoryManager.
type SQLiteRepositoryManager struct {
	logger logging.Logger
}

func NewSQLiteRepositoryManager(logger logging.Logger) *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{logger: orNop(logger)}
}

func (m *SQLiteRepositoryManager) Dialect() dbx.Dialect { return dbx.SQLite }

func (m *SQLiteRepositoryManager) Records(db dbx.DBTX, table string, codec cryptox.Codec) (records.Repository, error) {
	return records.NewSQLiteRepository(db, table, codec)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, migrations.SQLite, "sqlite3", m.logger)
}
