package bulkedit

import (
	"context"

	"github.com/google/uuid"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/history"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/differ"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/logging"
)

// Compile-time interface checks to ensure proper implementation.
var (
	_ Differ    = (*client)(nil)
	_ Historian = (*client)(nil)
)

// Differ previews workbook edits.
type Differ interface {
	// Diff returns the changeset of every document the workbook would
	// change under the client's strategy. Nothing is written.
	Diff(ctx context.Context, xmlPath, excelPath string) ([]*differ.Changeset, error)
}

// Historian lists recorded imports.
type Historian interface {
	// History returns up to limit runs, newest first. A limit <= 0
	// returns all. It is empty when history is disabled.
	History(ctx context.Context, limit int) ([]history.Run, error)
}

// Diff implements Differ.
func (c *client) Diff(ctx context.Context, xmlPath, excelPath string) ([]*differ.Changeset, error) {
	ctx = logging.WithOperation(ctx, "diff")
	o := &importOptions{
		strategy: c.options.strategy,
		dryRun:   true,
		runID:    uuid.NewString(),
	}
	result, _, err := c.reconcile(ctx, xmlPath, excelPath, o)
	if err != nil {
		return nil, err
	}
	return result.Changesets(), nil
}

// History implements Historian.
func (c *client) History(ctx context.Context, limit int) ([]history.Run, error) {
	if c.history == nil {
		return []history.Run{}, nil
	}
	return c.history.List(ctx, limit)
}
