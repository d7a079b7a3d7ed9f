package bulkedit

import (
	"context"

	"github.com/google/uuid"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/history"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/recipefile"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/workbook"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/logging"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/recipe"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/reconciler"
)

// Compile-time interface check to ensure proper implementation.
var _ Importer = (*client)(nil)

// Importer applies workbook edits to recipes.
type Importer interface {
	// Import loads xmlPath with its children, reconciles the sheets of
	// excelPath onto them and writes every document to a new output
	// folder. Nothing is written when validation fails or on a dry run.
	Import(ctx context.Context, xmlPath, excelPath string, opts ...ImportOption) (*ImportResult, error)
}

// ImportResult is a reconciliation result plus where it was written.
type ImportResult struct {
	*reconciler.Result `yaml:",inline"`

	// OutputDir is empty for a dry run.
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
}

// Import implements Importer.
func (c *client) Import(ctx context.Context, xmlPath, excelPath string, opts ...ImportOption) (*ImportResult, error) {
	o, err := c.importOptions(opts...)
	if err != nil {
		return nil, err
	}
	if o.runID == "" {
		o.runID = uuid.NewString()
	}
	ctx = logging.WithOperation(ctx, "excel2xml")

	result, docs, err := c.reconcile(ctx, xmlPath, excelPath, o)
	if err != nil {
		return nil, err
	}
	out := &ImportResult{Result: result}
	if o.dryRun {
		return out, nil
	}

	writer := recipefile.NewWriter(
		recipefile.WithWriteProgress(c.options.progress),
		recipefile.WithClock(c.options.now),
	)
	if out.OutputDir, err = writer.Write(ctx, docs, o.outputDir); err != nil {
		return nil, err
	}

	c.hooks.trigger(result.Changesets())
	c.record(ctx, xmlPath, excelPath, out)
	return out, nil
}

// reconcile loads both sides and runs the reconciler. The returned
// documents are the loaded ones, mutated unless o.dryRun is set.
func (c *client) reconcile(ctx context.Context, xmlPath, excelPath string, o *importOptions) (*reconciler.Result, []*recipe.Document, error) {
	docs, err := c.load(ctx, xmlPath)
	if err != nil {
		return nil, nil, err
	}
	sheets, err := workbook.Read(ctx, excelPath, names(docs))
	if err != nil {
		return nil, nil, err
	}

	rec, err := reconciler.New(
		reconciler.WithStrategy(o.strategy),
		reconciler.WithDryRun(o.dryRun),
		reconciler.WithRunID(o.runID),
	)
	if err != nil {
		return nil, nil, err
	}
	result, err := rec.Reconcile(ctx, docs, sheets)
	if err != nil {
		return nil, nil, err
	}
	return result, docs, nil
}

// record saves an applied import. A failure is logged; the files are
// already written by then.
func (c *client) record(ctx context.Context, xmlPath, excelPath string, r *ImportResult) {
	if c.history == nil {
		return
	}
	run := history.Run{
		ID:        r.RunID,
		StartedAt: r.Metadata.StartTime,
		Duration:  r.Metadata.Duration,
		Source:    xmlPath,
		Workbook:  excelPath,
		OutputDir: r.OutputDir,
		Strategy:  string(r.Metadata.Strategy),
		DryRun:    r.Metadata.DryRun,
		Documents: len(r.Documents),
		Created:   r.Totals.Created,
		Updated:   r.Totals.Updated,
		Deleted:   r.Totals.Deleted,
	}
	if err := c.history.Record(ctx, run); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("run_id", run.ID).Msg("Failed to record run history")
	}
}
