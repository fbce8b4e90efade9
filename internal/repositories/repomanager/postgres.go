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

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct {
	logger logging.Logger
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager(logger logging.Logger) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{logger: orNop(logger)}
}

func (m *PostgresRepositoryManager) Dialect() dbx.Dialect { return dbx.Postgres }

// Records returns a records.Repository for table bound to the provided DBTX.
func (m *PostgresRepositoryManager) Records(db dbx.DBTX, table string, codec cryptox.Codec) (records.Repository, error) {
	return records.NewPostgresRepository(db, table, codec)
}

// RunMigrations applies the embedded PostgreSQL migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, migrations.Postgres, "pgx", m.logger)
}
