package reconciler

import (
	"fmt"
	"time"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/differ"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/recipe"
)

// Result represents the outcome of a reconciliation operation.
type Result struct {
	RunID string

	// Totals across every document
	Totals Counts

	// Per-document breakdown, in sheet order
	Documents []*DocumentResult

	// Metadata
	Metadata ResultMetadata

	// Issues
	Warnings []string
}

// ResultMetadata contains metadata about the reconciliation process.
type ResultMetadata struct {
	// StartTime when reconciliation started
	StartTime time.Time

	// EndTime when reconciliation completed
	EndTime time.Time

	// Duration of the reconciliation
	Duration time.Duration

	// Strategy used for reconciliation
	Strategy differ.ApplyStrategy

	// DryRun indicates if this was a dry-run
	DryRun bool

	// Statistics about the reconciliation
	Stats ResultStatistics
}

// ResultStatistics contains statistics about the reconciliation.
type ResultStatistics struct {
	DocumentsProcessed int
	SheetsSkipped      int
	RowsProcessed      int
	RowsSkipped        int // Blank rows and rows suppressed by the strategy
	TotalTimeMs        int64
}

// Counts tallies created, updated and deleted entities.
type Counts struct {
	Created int
	Updated int
	Deleted int
}

// Total returns the number of changes.
func (c Counts) Total() int {
	return c.Created + c.Updated + c.Deleted
}

func (c *Counts) add(o Counts) {
	c.Created += o.Created
	c.Updated += o.Updated
	c.Deleted += o.Deleted
}

// StepResult holds the FormulaValue counts for one step chain.
type StepResult struct {
	Step string
	Counts
	Deferrals int // Created or updated FormulaValues that defer
}

// DocumentResult is the outcome of reconciling one sheet onto one document.
type DocumentResult struct {
	Name       string
	Sheet      string
	Parameters Counts
	Steps      []*StepResult
	Changeset  *differ.Changeset
	Document   *recipe.Document `json:"-" yaml:"-"`
}

func newDocumentResult(doc *recipe.Document, sheet string) *DocumentResult {
	return &DocumentResult{
		Name:      doc.Name(),
		Sheet:     sheet,
		Changeset: differ.NewChangeset(doc.Name()),
		Document:  doc,
	}
}

// step returns the entry for a step chain, adding it on first use.
func (d *DocumentResult) step(name string) *StepResult {
	for _, s := range d.Steps {
		if s.Step == name {
			return s
		}
	}
	s := &StepResult{Step: name}
	d.Steps = append(d.Steps, s)
	return s
}

// FormulaValues sums the per-step counts.
func (d *DocumentResult) FormulaValues() Counts {
	var c Counts
	for _, s := range d.Steps {
		c.add(s.Counts)
	}
	return c
}

// Totals returns the document's Parameter and FormulaValue counts combined.
func (d *DocumentResult) Totals() Counts {
	c := d.Parameters
	c.add(d.FormulaValues())
	return c
}

// HasChanges returns true if anything in the document changed.
func (d *DocumentResult) HasChanges() bool {
	return d.Totals().Total() > 0
}

// HasChanges returns true if any document changed.
func (r *Result) HasChanges() bool {
	return r.Totals.Total() > 0
}

// Changesets returns the changeset of every document that changed.
func (r *Result) Changesets() []*differ.Changeset {
	out := []*differ.Changeset{}
	for _, d := range r.Documents {
		if d.Changeset.HasChanges() {
			out = append(out, d.Changeset)
		}
	}
	return out
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	counts := fmt.Sprintf("Created=%d Updated=%d Deleted=%d", r.Totals.Created, r.Totals.Updated, r.Totals.Deleted)
	if r.Metadata.DryRun {
		if r.HasChanges() {
			return "Dry run completed. " + counts
		}
		return "Dry run completed. No changes detected."
	}
	if r.HasChanges() {
		return "Reconciliation successful. " + counts
	}
	return "Reconciliation completed. No changes detected."
}

// NewResult creates a new result with defaults.
func NewResult(runID string) *Result {
	return &Result{
		RunID:    runID,
		Warnings: []string{},
		Metadata: ResultMetadata{
			StartTime: time.Now(),
		},
	}
}

// Finalize totals the documents, calculates duration and marks completion.
func (r *Result) Finalize() {
	r.Totals = Counts{}
	for _, d := range r.Documents {
		r.Totals.add(d.Totals())
	}
	r.Metadata.Stats.DocumentsProcessed = len(r.Documents)
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
	r.Metadata.Stats.TotalTimeMs = r.Metadata.Duration.Milliseconds()
}
