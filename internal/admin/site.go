// Package admin exposes file-backed models over a small authenticated JSON
// listing: rows with their list columns, an edit form, and bulk actions.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/filesify/internal/filesify"
	"github.com/dmitrijs2005/filesify/internal/models"
)

var ErrAlreadyRegistered = errors.New("model already registered with admin")

// ActionFunc applies a bulk action to the selected ids and returns how many
// rows it affected.
type ActionFunc func(ctx context.Context, m *filesify.Manager, model *filesify.Model, ids []string) (int, error)

type Action struct {
	Name        string
	Description string
	Run         ActionFunc
}

// ModelAdmin configures how a model is listed and edited.
type ModelAdmin struct {
	ListDisplay []string
	Fields      []string
	Actions     []Action
}

// DeleteAndRemoveFileOnDisk deletes the selected rows through the manager,
// removing each row's file first.
var DeleteAndRemoveFileOnDisk = Action{
	Name:        "delete_and_remove_file_on_disk",
	Description: "Delete selected objects and their files on disk",
	Run: func(ctx context.Context, m *filesify.Manager, model *filesify.Model, ids []string) (int, error) {
		return m.DeleteSelected(ctx, model, ids)
	},
}

// DefaultModelAdmin is the admin used for every file-backed model.
func DefaultModelAdmin() ModelAdmin {
	return ModelAdmin{
		ListDisplay: []string{"file_path", "comment"},
		Fields:      []string{"file_path", "content", "comment"},
		Actions:     []Action{DeleteAndRemoveFileOnDisk},
	}
}

func (ma ModelAdmin) action(name string) (Action, bool) {
	for _, a := range ma.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}

func (ma ModelAdmin) hasField(name string) bool {
	for _, f := range ma.Fields {
		if f == name {
			return true
		}
	}
	return false
}

type registration struct {
	model *filesify.Model
	admin ModelAdmin
}

// Site holds the models exposed by the admin, in registration order.
type Site struct {
	mu    sync.RWMutex
	regs  []*registration
	byKey map[string]*registration
}

func NewSite() *Site {
	return &Site{byKey: make(map[string]*registration)}
}

func siteKey(label string) string { return strings.ToLower(label) }

func (s *Site) Register(model *filesify.Model, ma ModelAdmin) error {
	if model.Abstract() {
		return fmt.Errorf("%w: %s", filesify.ErrNotFilesifyModel, model)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := siteKey(model.String())
	if _, ok := s.byKey[k]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, model)
	}
	r := &registration{model: model, admin: ma}
	s.regs = append(s.regs, r)
	s.byKey[k] = r
	return nil
}

func (s *Site) lookup(label string) (*registration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byKey[siteKey(label)]
	return r, ok
}

func (s *Site) registrations() []*registration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*registration, len(s.regs))
	copy(out, s.regs)
	return out
}

// fieldValue renders one named column of rec.
func fieldValue(rec *models.Record, name string) (string, bool) {
	switch name {
	case "id":
		return rec.ID, true
	case "file_path":
		return rec.FilePath, true
	case "content":
		return rec.Content, true
	case "comment":
		return rec.Comment, true
	case "created_at":
		return rec.CreatedAt.Format(time.RFC3339), true
	case "updated_at":
		return rec.UpdatedAt.Format(time.RFC3339), true
	default:
		return "", false
	}
}

func row(rec *models.Record, columns []string) map[string]string {
	out := map[string]string{"id": rec.ID}
	for _, c := range columns {
		if v, ok := fieldValue(rec, c); ok {
			out[c] = v
		}
	}
	return out
}

// applyForm copies the editable fields present in form onto rec.
func applyForm(rec *models.Record, ma ModelAdmin, form map[string]string) {
	for name, v := range form {
		if !ma.hasField(name) {
			continue
		}
		switch name {
		case "file_path":
			rec.FilePath = v
		case "content":
			rec.Content = v
		case "comment":
			rec.Comment = v
		}
	}
}
