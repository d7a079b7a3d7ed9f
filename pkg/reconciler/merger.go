package reconciler

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/constants"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/differ"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/errors"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/logging"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/recipe"
)

// Merger applies a validated sheet onto its document.
type Merger interface {
	// Sheet updates and creates the entities named by the sheet's rows and
	// deletes every entity the sheet does not name.
	Sheet(ctx context.Context, doc *recipe.Document, sheet *recipe.Sheet) (*DocumentResult, error)
}

// merger is the default Merger.
type merger struct {
	filter *filter
	stats  *ResultStatistics
}

// newMerger creates a merger that records row statistics into stats.
func newMerger(f *filter, stats *ResultStatistics) Merger {
	return &merger{filter: f, stats: stats}
}

// Sheet implements Merger.
func (m *merger) Sheet(ctx context.Context, doc *recipe.Document, sheet *recipe.Sheet) (*DocumentResult, error) {
	logger := logging.FromContext(ctx)
	res := newDocumentResult(doc, sheet.Name)
	seen := map[recipe.Kind]map[string]bool{
		recipe.KindParameter:    {},
		recipe.KindFormulaValue: {},
	}

	for _, row := range sheet.Rows {
		if err := ctx.Err(); err != nil {
			return nil, canceled(err)
		}
		if row.IsEmpty() {
			m.stats.RowsSkipped++
			continue
		}
		m.stats.RowsProcessed++

		kind, err := recipe.ParseKind(row.TagType())
		if err != nil {
			return nil, rowError(sheet, row, err)
		}
		path := row.FullPath()
		seen[kind][path] = true

		if err := m.row(logger, res, kind, row); err != nil {
			return nil, rowError(sheet, row, err)
		}
	}

	for _, kind := range recipe.Kinds {
		if err := m.deleteUnseen(logger, res, kind, seen[kind]); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// row updates the entity at the row's path, or creates it when absent.
func (m *merger) row(logger *zerolog.Logger, res *DocumentResult, kind recipe.Kind, row *recipe.Row) error {
	doc := res.Document
	path := row.FullPath()
	deferred := kind == recipe.KindFormulaValue && !recipe.IsBlank(row.Get(constants.FieldDefer))

	if e := doc.Find(kind, path); e != nil {
		if !m.filter.permits(differ.ChangeTypeUpdate, path) {
			m.stats.RowsSkipped++
			return nil
		}
		changes, err := e.Patch(row)
		if err != nil {
			return err
		}
		if len(changes) == 0 {
			logger.Debug().Str("path", path).Msg("Found in XML (no changes found)")
			return nil
		}
		logger.Debug().Str("path", path).Int("fields", len(changes)).Msg("Found in XML (updating)")

		change := differ.ChangeFromEntity(e)
		change.Changes = differ.FromPatch(changes)
		res.Changeset.Record(differ.ChangeTypeUpdate, change)
		m.count(res, e, differ.ChangeTypeUpdate, deferred)
		return nil
	}

	if !m.filter.permits(differ.ChangeTypeAdd, path) {
		m.stats.RowsSkipped++
		return nil
	}
	e, err := doc.Create(kind, row)
	if err != nil {
		return err
	}
	logger.Debug().Str("path", path).Msg("Not found in XML (creating)")
	res.Changeset.Record(differ.ChangeTypeAdd, differ.ChangeFromEntity(e))
	m.count(res, e, differ.ChangeTypeAdd, deferred)
	return nil
}

// deleteUnseen removes every entity of kind whose path no row named.
func (m *merger) deleteUnseen(logger *zerolog.Logger, res *DocumentResult, kind recipe.Kind, seen map[string]bool) error {
	doc := res.Document
	existing := append([]*recipe.Entity(nil), doc.Entities(kind)...)

	for _, e := range existing {
		if seen[e.Path()] {
			continue
		}
		if !m.filter.permits(differ.ChangeTypeRemove, e.Path()) {
			continue
		}
		change := differ.ChangeFromEntity(e)
		if err := doc.Delete(e); err != nil {
			return err
		}
		logger.Debug().Str("path", e.Path()).Msg("Not found in Excel but exists in XML (deleted)")
		res.Changeset.Record(differ.ChangeTypeRemove, change)
		m.count(res, e, differ.ChangeTypeRemove, false)
	}
	return nil
}

// count records one change in the Parameter or per-step counters.
func (m *merger) count(res *DocumentResult, e *recipe.Entity, t differ.ChangeType, deferred bool) {
	c := &res.Parameters
	var step *StepResult
	if e.Kind() == recipe.KindFormulaValue {
		step = res.step(e.Step())
		c = &step.Counts
	}

	switch t {
	case differ.ChangeTypeAdd:
		c.Created++
	case differ.ChangeTypeUpdate:
		c.Updated++
	case differ.ChangeTypeRemove:
		c.Deleted++
	}
	if step != nil && deferred {
		step.Deferrals++
	}
}

func rowError(sheet *recipe.Sheet, row *recipe.Row, err error) error {
	if errors.IsCanceled(err) {
		return err
	}
	return &errors.RowError{Sheet: sheet.Name, Line: row.Line, Path: row.FullPath(), Err: err}
}
