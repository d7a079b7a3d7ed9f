// Package table converts command results into rows for table output.
package table

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	bulkedit "github.com/marcelo-6/ftbatch-recipe-bulk-edit"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/history"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/differ"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// ExportToTableData lists the sheets of an exported workbook.
func ExportToTableData(res *bulkedit.ExportResult) Data {
	rows := make([][]string, 0, len(res.Documents))
	for i, doc := range res.Documents {
		rows = append(rows, []string{res.Sheets[i], doc, strconv.Itoa(res.Rows[doc])})
	}
	return Data{
		Headers:         []string{"Sheet", "Document", "Rows"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight},
	}
}

// ImportToTableData breaks an import result down by document, with one
// line for Parameters and one per step chain.
func ImportToTableData(res *bulkedit.ImportResult) Data {
	var rows [][]string
	for _, d := range res.Documents {
		rows = append(rows, []string{
			d.Name, "Parameters",
			strconv.Itoa(d.Parameters.Created),
			strconv.Itoa(d.Parameters.Updated),
			strconv.Itoa(d.Parameters.Deleted),
			"",
		})
		for _, s := range d.Steps {
			rows = append(rows, []string{
				d.Name, "Step " + s.Step,
				strconv.Itoa(s.Created),
				strconv.Itoa(s.Updated),
				strconv.Itoa(s.Deleted),
				strconv.Itoa(s.Deferrals),
			})
		}
	}
	rows = append(rows, []string{
		"TOTAL", "",
		strconv.Itoa(res.Totals.Created),
		strconv.Itoa(res.Totals.Updated),
		strconv.Itoa(res.Totals.Deleted),
		"",
	})

	return Data{
		Headers:         []string{"Document", "Scope", "Created", "Updated", "Deleted", "Deferrals"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight},
	}
}

// ChangesetsToTableData lists every entity change.
func ChangesetsToTableData(changesets []*differ.Changeset) Data {
	var rows [][]string
	for _, cs := range changesets {
		for _, set := range []*differ.EntityChangeset{cs.Parameters, cs.FormulaValues} {
			rows = appendChanges(rows, cs.Document, differ.ChangeTypeAdd, set.Added)
			rows = appendChanges(rows, cs.Document, differ.ChangeTypeUpdate, set.Updated)
			rows = appendChanges(rows, cs.Document, differ.ChangeTypeRemove, set.Removed)
		}
	}
	return Data{
		Headers: []string{"Document", "Change", "Kind", "Path", "Fields"},
		Rows:    rows,
	}
}

func appendChanges(rows [][]string, doc string, t differ.ChangeType, changes []differ.EntityChange) [][]string {
	for _, c := range changes {
		rows = append(rows, []string{doc, string(t), c.Kind.String(), c.Path, fieldSummary(c.Changes)})
	}
	return rows
}

func fieldSummary(changes []differ.FieldChange) string {
	parts := make([]string, 0, len(changes))
	for _, fc := range changes {
		parts = append(parts, fmt.Sprintf("%s: %q → %q", fc.Field, fc.OldValue, fc.NewValue))
	}
	return strings.Join(parts, "; ")
}

// RunsToTableData lists recorded runs.
func RunsToTableData(runs []history.Run) Data {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			r.Strategy,
			strconv.Itoa(r.Documents),
			strconv.Itoa(r.Created),
			strconv.Itoa(r.Updated),
			strconv.Itoa(r.Deleted),
			r.OutputDir,
		})
	}
	return Data{
		Headers:         []string{"Run ID", "Started", "Strategy", "Documents", "Created", "Updated", "Deleted", "Output"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignLeft},
	}
}
