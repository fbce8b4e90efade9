// Package apps is the host registry that file-backed models plug into:
// models grouped under app labels, app configs with a Ready hook, and the
// post-migrate signal.
package apps

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/filesify/internal/common"
)

var (
	// ErrModelNotFound is returned by GetModel for unknown app.Model pairs.
	ErrModelNotFound = fmt.Errorf("%w: model not found", common.ErrUsage)

	ErrDuplicateModel = errors.New("model already registered")
)

// Model is anything registered under an app label.
type Model interface {
	AppLabel() string
	ModelName() string
}

// Label returns the "app.Model" form of m.
func Label(m Model) string {
	return m.AppLabel() + "." + m.ModelName()
}

// Registry keeps models in registration order.
type Registry struct {
	mu     sync.RWMutex
	models []Model
	byKey  map[string]Model
}

func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]Model)}
}

func key(app, model string) string {
	return strings.ToLower(app) + "." + strings.ToLower(model)
}

// Register adds m. App label and model name are matched case-insensitively,
// so "app.Config" and "app.config" collide.
func (r *Registry) Register(m Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(m.AppLabel(), m.ModelName())
	if _, ok := r.byKey[k]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateModel, Label(m))
	}
	r.byKey[k] = m
	r.models = append(r.models, m)
	return nil
}

// Models returns a copy of the registered models in registration order.
func (r *Registry) Models() []Model {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Model, len(r.models))
	copy(out, r.models)
	return out
}

func (r *Registry) GetModel(app, model string) (Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byKey[key(app, model)]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrModelNotFound, app, model)
	}
	return m, nil
}
