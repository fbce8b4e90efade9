// Package models defines the row types persisted by filesify.
package models

import "time"

// MaxFilePathLen is the width of the file_path column.
const MaxFilePathLen = 255

// Record is one row of a file-backed model. Content is always plaintext in
// memory; the repository encodes it on the way to the table.
type Record struct {
	ID        string
	FilePath  string
	Content   string
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Record) String() string {
	return r.FilePath
}
