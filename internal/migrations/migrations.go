// Package migrations embeds the goose SQL migrations, one directory per dialect.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var embedded embed.FS

// SQLite holds the migrations for modernc.org/sqlite.
var SQLite = mustSub("sqlite")

// Postgres holds the migrations for PostgreSQL via pgx.
var Postgres = mustSub("postgres")

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(embedded, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
