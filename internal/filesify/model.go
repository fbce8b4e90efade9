// Package filesify keeps a file on disk in sync with each row of a
// file-backed model: saving a record writes its content to file_path,
// deleting it removes the file. It also regenerates files in bulk and
// hooks that regeneration into the post-migrate signal.
package filesify

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filesify/internal/apps"
	"github.com/dmitrijs2005/filesify/internal/cryptox"
	"github.com/dmitrijs2005/filesify/internal/filex"
	"github.com/dmitrijs2005/filesify/internal/models"
)

// ErrEncryptionUnavailable is returned when an encrypted model is declared
// without a codec, i.e. no passphrase was configured.
var ErrEncryptionUnavailable = errors.New("encryption is not configured: set an encryption passphrase")

// Model describes a file-backed model. It satisfies apps.Model.
type Model struct {
	app      string
	name     string
	table    string
	codec    cryptox.Codec
	abstract bool
}

// Base is the abstract file-backed model. It can be registered so that
// "filesify.BaseFilesify" resolves, but it is never eligible for file creation.
var Base = &Model{app: "filesify", name: "BaseFilesify", codec: cryptox.PlainCodec{}, abstract: true}

// NewModel declares a file-backed model with plain text content.
func NewModel(app, name, table string) *Model {
	return &Model{app: app, name: name, table: table, codec: cryptox.PlainCodec{}}
}

// NewCryptoModel declares a file-backed model whose content is encrypted at
// rest with codec. The file on disk always holds plaintext.
func NewCryptoModel(app, name, table string, codec cryptox.Codec) (*Model, error) {
	if codec == nil {
		return nil, fmt.Errorf("%s.%s: %w", app, name, ErrEncryptionUnavailable)
	}
	return &Model{app: app, name: name, table: table, codec: codec}, nil
}

func (m *Model) AppLabel() string     { return m.app }
func (m *Model) ModelName() string    { return m.name }
func (m *Model) Table() string        { return m.table }
func (m *Model) Codec() cryptox.Codec { return m.codec }
func (m *Model) Abstract() bool       { return m.abstract }
func (m *Model) String() string       { return apps.Label(m) }

// IsFilesifyModel reports whether m is a concrete file-backed model.
func IsFilesifyModel(m apps.Model) bool {
	fm, ok := m.(*Model)
	return ok && !fm.abstract
}

// CreateFile writes rec.Content to rec.FilePath. Empty path or content is a no-op.
// I/O failures come back as *fs.PathError.
func CreateFile(rec *models.Record) error {
	if rec.FilePath == "" || rec.Content == "" {
		return nil
	}
	return filex.WriteText(rec.FilePath, rec.Content)
}

// RemoveFile deletes the regular file at rec.FilePath, if there is one.
func RemoveFile(rec *models.Record) error {
	if rec.FilePath == "" {
		return nil
	}
	_, err := filex.RemoveRegular(rec.FilePath)
	return err
}
