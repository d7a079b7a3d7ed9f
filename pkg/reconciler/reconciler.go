// Package reconciler applies an edited workbook onto recipe documents.
// It validates every row of every sheet first, then classifies each
// entity as updated, created or deleted and mutates the documents.
package reconciler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/differ"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/errors"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/logging"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/recipe"
)

// Reconciler is the main interface for reconciling sheets onto documents.
type Reconciler interface {
	// Reconcile applies each sheet to the document of the same name.
	// Row-level validation failures are returned together as one
	// *errors.ImportError and no document is modified.
	Reconcile(ctx context.Context, docs []*recipe.Document, sheets []recipe.Sheet) (*Result, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	strategy differ.ApplyStrategy
	dryRun   bool
	runID    string
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	r := &reconciler{
		strategy: options.strategy,
		dryRun:   options.dryRun,
		runID:    options.runID,
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	return r, nil
}

// reconcileContext holds shared state for reconciliation.
type reconcileContext struct {
	collector *collector
	filter    *filter
	logger    *zerolog.Logger
	result    *Result
}

// Reconcile performs reconciliation with a clean step-by-step flow.
func (r *reconciler) Reconcile(ctx context.Context, docs []*recipe.Document, sheets []recipe.Sheet) (*Result, error) {
	// Step 1: Initialize context
	ctx, rctx, err := r.initialize(ctx, docs)
	if err != nil {
		return nil, err
	}

	// Step 2: Match sheets to documents
	bindings, warnings := rctx.collector.bind(sheets)
	rctx.result.Warnings = append(rctx.result.Warnings, warnings...)
	rctx.result.Metadata.Stats.SheetsSkipped = len(warnings)

	// Step 3: Validate every row before touching any document
	if err := r.validate(rctx, bindings); err != nil {
		return nil, err
	}

	// Step 4: Work on copies for a dry run
	if r.dryRun {
		if bindings, err = r.cloneAll(bindings); err != nil {
			return nil, err
		}
	}

	// Step 5: Apply each sheet
	m := newMerger(rctx.filter, &rctx.result.Metadata.Stats)
	for _, b := range bindings {
		if err := ctx.Err(); err != nil {
			return nil, canceled(err)
		}
		docCtx := logging.WithSheet(logging.WithDocument(ctx, b.doc.Name()), b.sheet.Name)
		res, err := m.Sheet(docCtx, b.doc, b.sheet)
		if err != nil {
			rctx.logger.Error().Err(err).Str("document", b.doc.Name()).Msg("Reconciliation aborted")
			return nil, err
		}
		r.logDocument(rctx.logger, res)
		rctx.result.Documents = append(rctx.result.Documents, res)
	}

	// Step 6: Finalize
	rctx.result.Finalize()
	rctx.logger.Info().
		Int("created", rctx.result.Totals.Created).
		Int("updated", rctx.result.Totals.Updated).
		Int("deleted", rctx.result.Totals.Deleted).
		Bool("dry_run", r.dryRun).
		Dur("duration", rctx.result.Metadata.Duration).
		Msg("Reconciliation complete")
	return rctx.result, nil
}

// initialize sets up reconciliation context.
func (r *reconciler) initialize(ctx context.Context, docs []*recipe.Document) (context.Context, *reconcileContext, error) {
	if err := ctx.Err(); err != nil {
		return ctx, nil, canceled(err)
	}

	ctx = logging.WithRunID(ctx, r.runID)
	ctx = logging.WithField(ctx, "strategy", string(r.strategy))
	logger := logging.FromContext(ctx)

	result := NewResult(r.runID)
	result.Metadata.Strategy = r.strategy
	result.Metadata.DryRun = r.dryRun

	logger.Debug().
		Int("documents", len(docs)).
		Bool("dry_run", r.dryRun).
		Msg("Importing Excel changes to XML")

	return ctx, &reconcileContext{
		collector: newCollector(docs, logger),
		filter:    newFilter(r.strategy, logger),
		logger:    logger,
		result:    result,
	}, nil
}

// validate collects the row errors of every bound sheet.
func (r *reconciler) validate(rctx *reconcileContext, bindings []binding) error {
	var failures []*errors.RowError
	for _, b := range bindings {
		failures = append(failures, validateSheet(b.doc, b.sheet)...)
	}
	if len(failures) == 0 {
		return nil
	}

	for _, f := range failures {
		rctx.logger.Error().
			Str("sheet", f.Sheet).
			Int("row", f.Line).
			Str("path", f.Path).
			Err(f.Err).
			Msg("Invalid row")
	}
	return &errors.ImportError{Errors: failures}
}

// cloneAll rebinds every sheet to a deep copy of its document.
func (r *reconciler) cloneAll(bindings []binding) ([]binding, error) {
	out := make([]binding, len(bindings))
	for i, b := range bindings {
		c, err := b.doc.Clone()
		if err != nil {
			return nil, errors.WrapResource("clone", "document", b.doc.Name(), err)
		}
		out[i] = binding{doc: c, sheet: b.sheet}
	}
	return out, nil
}

// logDocument logs the per-sheet summary when anything changed.
func (r *reconciler) logDocument(logger *zerolog.Logger, res *DocumentResult) {
	if !res.HasChanges() {
		logger.Debug().Str("sheet", res.Sheet).Msg("No changes for sheet")
		return
	}

	logger.Info().
		Str("sheet", res.Sheet).
		Int("created", res.Parameters.Created).
		Int("updated", res.Parameters.Updated).
		Int("deleted", res.Parameters.Deleted).
		Msg("Parameters")
	for _, s := range res.Steps {
		logger.Info().
			Str("sheet", res.Sheet).
			Str("step", s.Step).
			Int("created", s.Created).
			Int("updated", s.Updated).
			Int("deferrals", s.Deferrals).
			Int("deleted", s.Deleted).
			Msg("FormulaValues")
	}
}

func canceled(err error) error {
	return fmt.Errorf("%w: %w", errors.ErrCanceled, err)
}
