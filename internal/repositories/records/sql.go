// Package records provides the SQL repository behind file-backed models.
// One implementation serves SQLite and PostgreSQL; queries are written with
// '?' placeholders and rebound per dialect.
package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dmitrijs2005/filesify/internal/common"
	"github.com/dmitrijs2005/filesify/internal/cryptox"
	"github.com/dmitrijs2005/filesify/internal/dbx"
	"github.com/dmitrijs2005/filesify/internal/models"
	"github.com/google/uuid"
)

// ErrInvalidTable is returned for table names that are not plain identifiers.
var ErrInvalidTable = errors.New("invalid table name")

// ErrFilePathRequired is returned when a record has no file path.
var ErrFilePathRequired = errors.New("file_path is required")

// ErrFilePathTooLong is returned when a file path exceeds the column width.
var ErrFilePathTooLong = fmt.Errorf("file_path exceeds %d characters", models.MaxFilePathLen)

var tableRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,63}$`)

// SQLRepository stores records in one table over a dbx.DBTX (*sql.DB or *sql.Tx).
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
	table   string
	codec   cryptox.Codec
	now     func() time.Time
}

// NewSQLRepository binds a repository to table. A nil codec stores content as is.
func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect, table string, codec cryptox.Codec) (*SQLRepository, error) {
	if !tableRe.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	if codec == nil {
		codec = cryptox.PlainCodec{}
	}
	return &SQLRepository{
		db:      db,
		dialect: dialect,
		table:   table,
		codec:   codec,
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}, nil
}

// NewSQLiteRepository is NewSQLRepository for the SQLite dialect.
func NewSQLiteRepository(db dbx.DBTX, table string, codec cryptox.Codec) (*SQLRepository, error) {
	return NewSQLRepository(db, dbx.SQLite, table, codec)
}

// NewPostgresRepository is NewSQLRepository for the PostgreSQL dialect.
func NewPostgresRepository(db dbx.DBTX, table string, codec cryptox.Codec) (*SQLRepository, error) {
	return NewSQLRepository(db, dbx.Postgres, table, codec)
}

func (r *SQLRepository) q(query string) string {
	return dbx.Rebind(r.dialect, fmt.Sprintf(query, r.table))
}

func (r *SQLRepository) CreateOrUpdate(ctx context.Context, rec *models.Record) error {
	if rec.FilePath == "" {
		return ErrFilePathRequired
	}
	if len([]rune(rec.FilePath)) > models.MaxFilePathLen {
		return ErrFilePathTooLong
	}

	stored, err := r.codec.Encode(rec.Content)
	if err != nil {
		return fmt.Errorf("encode content: %w", err)
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := r.now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	query := r.q(`
		INSERT INTO %[1]s (id, file_path, content, comment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id)
		DO UPDATE SET
			file_path = excluded.file_path,
			content = excluded.content,
			comment = excluded.comment,
			updated_at = excluded.updated_at
	`)
	res, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.FilePath, stored, nullString(rec.Comment), rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
	return nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*models.Record, error) {
	query := r.q(`SELECT id, file_path, content, comment, created_at, updated_at FROM %[1]s WHERE id = ?`)
	row := r.db.QueryRowContext(ctx, query, id)

	rec, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select record: %w", err)
	}
	return rec, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]*models.Record, error) {
	query := r.q(`SELECT id, file_path, content, comment, created_at, updated_at FROM %[1]s ORDER BY created_at, id`)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []*models.Record
	for rows.Next() {
		rec, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	query := r.q(`DELETE FROM %[1]s WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *SQLRepository) scan(s scanner) (*models.Record, error) {
	var (
		rec     models.Record
		stored  string
		comment sql.NullString
	)
	if err := s.Scan(&rec.ID, &rec.FilePath, &stored, &comment, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	content, err := r.codec.Decode(stored)
	if err != nil {
		return nil, fmt.Errorf("decode content of %s: %w", rec.ID, err)
	}
	rec.Content = content
	rec.Comment = comment.String
	return &rec, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
