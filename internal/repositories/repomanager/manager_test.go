package repomanager

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/filesify/internal/dbx"
	"github.com/dmitrijs2005/filesify/internal/logging"
	"github.com/dmitrijs2005/filesify/internal/models"
	"github.com/dmitrijs2005/filesify/internal/repositories/records"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestNew_PicksManagerByDialect(t *testing.T) {
	m, err := New(dbx.SQLite, nil)
	require.NoError(t, err)
	require.Equal(t, dbx.SQLite, m.Dialect())

	m, err = New(dbx.Postgres, nil)
	require.NoError(t, err)
	require.Equal(t, dbx.Postgres, m.Dialect())

	_, err = New(dbx.Dialect("mysql"), nil)
	require.Error(t, err)
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	for _, m := range []RepositoryManager{NewPostgresRepositoryManager(nil), NewSQLiteRepositoryManager(nil)} {
		r, err := m.Records(db, "app_config", nil)
		if err != nil {
			t.Fatalf("Records() error: %v", err)
		}
		if r == nil {
			t.Fatal("Records() nil")
		}
		var _ records.Repository = r

		if _, err := m.Records(db, "bad table", nil); !errors.Is(err, records.ErrInvalidTable) {
			t.Fatalf("want ErrInvalidTable, got %v", err)
		}
	}
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		if len(opts) != 0 {
			return errors.New("unexpected opts")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	m := NewPostgresRepositoryManager(nil)
	if err := m.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	m := NewSQLiteRepositoryManager(nil)
	if err := m.RunMigrations(context.Background(), db); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestSQLite_RunMigrations_Real(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	ctx := context.Background()
	m := NewSQLiteRepositoryManager(nil)
	require.NoError(t, m.RunMigrations(ctx, db))
	// a second run is a no-op
	require.NoError(t, m.RunMigrations(ctx, db))

	for _, table := range []string{"app_config", "app_secret"} {
		repo, err := m.Records(db, table, nil)
		require.NoError(t, err)
		rec := &models.Record{FilePath: table + ".txt", Content: "x"}
		require.NoError(t, repo.CreateOrUpdate(ctx, rec))
		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
	}
}

func bufferLogger(buf *bytes.Buffer) logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func TestSQLite_RunMigrations_LogsThroughLogger(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	var buf bytes.Buffer
	m := NewSQLiteRepositoryManager(bufferLogger(&buf))
	require.NoError(t, m.RunMigrations(context.Background(), db))

	out := buf.String()
	require.Contains(t, out, "00001_create_app_config.sql")
	require.Contains(t, out, "00002_create_app_secret.sql")
	require.Contains(t, out, "component=goose")
	require.Contains(t, out, "dialect=sqlite3")
}

func TestGooseLogger(t *testing.T) {
	var buf bytes.Buffer
	g := gooseLogger{ctx: context.Background(), log: bufferLogger(&buf)}

	g.Printf("OK   %s (%s)\n", "00001_x.sql", "1ms")
	require.Contains(t, buf.String(), "level=INFO")
	require.Contains(t, buf.String(), `msg="OK   00001_x.sql (1ms)"`)

	buf.Reset()
	require.PanicsWithValue(t, "goose: broken: 00002_y.sql", func() {
		g.Fatalf("broken: %s\n", "00002_y.sql")
	})
	require.Contains(t, buf.String(), "level=ERROR")
}
