package records

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/filesify/internal/common"
	"github.com/dmitrijs2005/filesify/internal/cryptox"
	"github.com/dmitrijs2005/filesify/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE app_config (
  id TEXT PRIMARY KEY,
  file_path VARCHAR(255) NOT NULL,
  content TEXT NOT NULL DEFAULT '',
  comment TEXT NULL,
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func TestSQLite_CreateOrUpdate_InsertAndUpdate(t *testing.T) {
	db := setupDB(t)
	r, err := NewSQLiteRepository(db, "app_config", nil)
	require.NoError(t, err)
	ctx := context.Background()

	rec := &models.Record{FilePath: "/tmp/example.txt", Content: "Hello, World!", Comment: "greeting"}
	require.NoError(t, r.CreateOrUpdate(ctx, rec))
	require.NotEmpty(t, rec.ID, "id should be assigned")
	require.False(t, rec.CreatedAt.IsZero())
	created := rec.CreatedAt

	got, err := r.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/example.txt", got.FilePath)
	assert.Equal(t, "Hello, World!", got.Content)
	assert.Equal(t, "greeting", got.Comment)

	// update by the same id
	r.now = func() time.Time { return created.Add(time.Minute) }
	rec.Content = "Bye"
	rec.Comment = ""
	require.NoError(t, r.CreateOrUpdate(ctx, rec))

	got, err = r.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bye", got.Content)
	assert.Empty(t, got.Comment)
	assert.True(t, got.CreatedAt.Equal(created), "created_at must not move on update")
	assert.True(t, got.UpdatedAt.After(created))

	var comment sql.NullString
	require.NoError(t, db.QueryRow(`SELECT comment FROM app_config WHERE id=?`, rec.ID).Scan(&comment))
	assert.False(t, comment.Valid, "empty comment is stored as NULL")
}

func TestSQLite_CreateOrUpdate_Validation(t *testing.T) {
	db := setupDB(t)
	r, err := NewSQLiteRepository(db, "app_config", nil)
	require.NoError(t, err)

	err = r.CreateOrUpdate(context.Background(), &models.Record{Content: "x"})
	assert.ErrorIs(t, err, ErrFilePathRequired)

	long := make([]byte, models.MaxFilePathLen+1)
	for i := range long {
		long[i] = 'a'
	}
	err = r.CreateOrUpdate(context.Background(), &models.Record{FilePath: string(long)})
	assert.ErrorIs(t, err, ErrFilePathTooLong)
}

func TestSQLite_List_OrderedByCreation(t *testing.T) {
	db := setupDB(t)
	r, err := NewSQLiteRepository(db, "app_config", nil)
	require.NoError(t, err)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, p := range []string{"b.txt", "a.txt", "c.txt"} {
		at := base.Add(time.Duration(i) * time.Second)
		r.now = func() time.Time { return at }
		require.NoError(t, r.CreateOrUpdate(ctx, &models.Record{FilePath: p, Content: p}))
	}

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "b.txt", list[0].FilePath)
	assert.Equal(t, "a.txt", list[1].FilePath)
	assert.Equal(t, "c.txt", list[2].FilePath)
}

func TestSQLite_List_Empty(t *testing.T) {
	db := setupDB(t)
	r, err := NewSQLiteRepository(db, "app_config", nil)
	require.NoError(t, err)

	list, err := r.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSQLite_Delete(t *testing.T) {
	db := setupDB(t)
	r, err := NewSQLiteRepository(db, "app_config", nil)
	require.NoError(t, err)
	ctx := context.Background()

	rec := &models.Record{FilePath: "x.txt"}
	require.NoError(t, r.CreateOrUpdate(ctx, rec))
	require.NoError(t, r.Delete(ctx, rec.ID))

	_, err = r.GetByID(ctx, rec.ID)
	assert.True(t, errors.Is(err, common.ErrorNotFound))

	err = r.Delete(ctx, rec.ID)
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestSQLite_EncryptedContentAtRest(t *testing.T) {
	db := setupDB(t)
	codec, err := cryptox.NewAESCodecFromPassphrase("passphrase", "salt")
	require.NoError(t, err)
	r, err := NewSQLiteRepository(db, "app_config", codec)
	require.NoError(t, err)
	ctx := context.Background()

	rec := &models.Record{FilePath: "secret.txt", Content: "Hello, World!"}
	require.NoError(t, r.CreateOrUpdate(ctx, rec))

	var raw string
	require.NoError(t, db.QueryRow(`SELECT content FROM app_config WHERE id=?`, rec.ID).Scan(&raw))
	assert.NotEqual(t, "Hello, World!", raw)
	assert.NotEmpty(t, raw)

	got, err := r.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!", got.Content)
}

func TestNewSQLRepository_RejectsBadTable(t *testing.T) {
	db := setupDB(t)
	for _, table := range []string{"", "app config", "x;DROP TABLE y", "1abc"} {
		_, err := NewSQLiteRepository(db, table, nil)
		assert.ErrorIs(t, err, ErrInvalidTable, table)
	}
}
