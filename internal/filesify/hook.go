package filesify

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/filesify/internal/apps"
	"github.com/dmitrijs2005/filesify/internal/common"
)

// ErrInvalidLimitList is returned when LimitToModels holds an entry that is
// not a dotted "app.Model" path.
var ErrInvalidLimitList = fmt.Errorf("%w: LimitToModels must be a list of dotted path models", common.ErrUsage)

// PostMigrateHook is embedded in an app config to regenerate files after
// every migration run. An empty LimitToModels means every file-backed model.
type PostMigrateHook struct {
	LimitToModels []string
}

// HandlePostMigrate connects CreateFiles to the post-migrate signal of sender.
// Call it from the app config's Ready.
func (h *PostMigrateHook) HandlePostMigrate(signals *apps.Signals, sender string, manager *Manager, out io.Writer) {
	signals.PostMigrate.Connect(func(ctx context.Context, _ string) error {
		return h.CreateFiles(ctx, manager, out)
	}, sender)
}

// CreateFiles runs the batch command restricted to LimitToModels.
func (h *PostMigrateHook) CreateFiles(ctx context.Context, manager *Manager, out io.Writer) error {
	if len(h.LimitToModels) == 0 {
		return manager.CreateFiles(ctx, out)
	}
	for _, name := range h.LimitToModels {
		if strings.Count(name, ".") != 1 || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
			return fmt.Errorf("%w: %q", ErrInvalidLimitList, name)
		}
	}
	return manager.CreateFiles(ctx, out, h.LimitToModels...)
}
