// Package differ describes and detects changes between recipe documents.
package differ

import (
	"fmt"
	"io"
	"strings"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/errors"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/recipe"
)

// ChangeType represents the type of change.
type ChangeType string

const (
	// ChangeTypeAdd indicates an item was added.
	ChangeTypeAdd ChangeType = "add"
	// ChangeTypeUpdate indicates an item was updated.
	ChangeTypeUpdate ChangeType = "update"
	// ChangeTypeRemove indicates an item was removed.
	ChangeTypeRemove ChangeType = "remove"
)

// FieldChange represents a change to a single field of an entity.
type FieldChange struct {
	Field    string     // Field name (e.g., "Real", "FormulaValueLimit_HighValue")
	OldValue string     // Previous text
	NewValue string     // New text
	Type     ChangeType // Type of change
}

// EntityChange describes one added, updated or removed entity.
type EntityChange struct {
	Path    string
	Kind    recipe.Kind
	Name    string
	Step    string
	Changes []FieldChange // Only set for updates
}

// EntityChangeset groups changes to one kind of entity.
type EntityChangeset struct {
	Added   []EntityChange
	Updated []EntityChange
	Removed []EntityChange
}

// Changeset represents all changes made to one document.
type Changeset struct {
	Document      string
	Parameters    *EntityChangeset
	FormulaValues *EntityChangeset
	Summary       ChangesetSummary
}

// ChangesetSummary provides summary statistics for a changeset.
type ChangesetSummary struct {
	ParametersAdded      int
	ParametersUpdated    int
	ParametersRemoved    int
	FormulaValuesAdded   int
	FormulaValuesUpdated int
	FormulaValuesRemoved int
	TotalChanges         int
}

// NewChangeset returns an empty changeset for the named document.
func NewChangeset(document string) *Changeset {
	return &Changeset{
		Document:      document,
		Parameters:    &EntityChangeset{},
		FormulaValues: &EntityChangeset{},
	}
}

// ChangeFromEntity describes e without field details.
func ChangeFromEntity(e *recipe.Entity) EntityChange {
	return EntityChange{
		Path: e.Path(),
		Kind: e.Kind(),
		Name: e.Name(),
		Step: e.Step(),
	}
}

// FromPatch converts the field changes reported by recipe.Entity.Patch.
func FromPatch(changes []recipe.FieldChange) []FieldChange {
	out := make([]FieldChange, 0, len(changes))
	for _, c := range changes {
		t := ChangeTypeUpdate
		switch {
		case c.Created:
			t = ChangeTypeAdd
		case c.Removed:
			t = ChangeTypeRemove
		}
		out = append(out, FieldChange{Field: c.Field, OldValue: c.OldValue, NewValue: c.NewValue, Type: t})
	}
	return out
}

// For returns the entity changeset for kind.
func (c *Changeset) For(kind recipe.Kind) *EntityChangeset {
	if kind == recipe.KindParameter {
		return c.Parameters
	}
	return c.FormulaValues
}

// Record adds an entity change of the given type and refreshes the summary.
func (c *Changeset) Record(t ChangeType, change EntityChange) {
	set := c.For(change.Kind)
	switch t {
	case ChangeTypeAdd:
		set.Added = append(set.Added, change)
	case ChangeTypeUpdate:
		set.Updated = append(set.Updated, change)
	case ChangeTypeRemove:
		set.Removed = append(set.Removed, change)
	}
	c.Summary = calculateSummary(c.Parameters, c.FormulaValues)
}

// calculateSummary computes the summary for a changeset.
func calculateSummary(params, values *EntityChangeset) ChangesetSummary {
	s := ChangesetSummary{
		ParametersAdded:      len(params.Added),
		ParametersUpdated:    len(params.Updated),
		ParametersRemoved:    len(params.Removed),
		FormulaValuesAdded:   len(values.Added),
		FormulaValuesUpdated: len(values.Updated),
		FormulaValuesRemoved: len(values.Removed),
	}
	s.TotalChanges = s.ParametersAdded + s.ParametersUpdated + s.ParametersRemoved +
		s.FormulaValuesAdded + s.FormulaValuesUpdated + s.FormulaValuesRemoved
	return s
}

// HasChanges returns true if the changeset contains any changes.
func (c *Changeset) HasChanges() bool {
	return c.Summary.TotalChanges > 0
}

// IsEmpty returns true if the changeset contains no changes.
func (c *Changeset) IsEmpty() bool {
	return c.Summary.TotalChanges == 0
}

// HasChanges returns true if the entity changeset contains any changes.
func (e *EntityChangeset) HasChanges() bool {
	return len(e.Added) > 0 || len(e.Updated) > 0 || len(e.Removed) > 0
}

func (e *EntityChangeset) summary() string {
	var parts []string
	if len(e.Added) > 0 {
		parts = append(parts, fmt.Sprintf("%d added", len(e.Added)))
	}
	if len(e.Updated) > 0 {
		parts = append(parts, fmt.Sprintf("%d updated", len(e.Updated)))
	}
	if len(e.Removed) > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", len(e.Removed)))
	}
	return strings.Join(parts, ", ")
}

// String returns a human-readable summary of the changeset.
func (c *Changeset) String() string {
	if c.IsEmpty() {
		return fmt.Sprintf("%s: no changes detected", c.Document)
	}

	var parts []string
	if c.Parameters.HasChanges() {
		parts = append(parts, "Parameters: "+c.Parameters.summary())
	}
	if c.FormulaValues.HasChanges() {
		parts = append(parts, "FormulaValues: "+c.FormulaValues.summary())
	}
	return fmt.Sprintf("%s: %s (Total: %d changes)", c.Document, strings.Join(parts, "; "), c.Summary.TotalChanges)
}

// Print writes a detailed, human-readable view of the changeset.
func (c *Changeset) Print(w io.Writer) {
	fmt.Fprintln(w, c.String())
	if c.IsEmpty() {
		return
	}
	fmt.Fprintln(w, strings.Repeat("─", 80))
	c.Parameters.print(w, "Parameters")
	c.FormulaValues.print(w, "FormulaValues")
}

func (e *EntityChangeset) print(w io.Writer, label string) {
	if len(e.Added) > 0 {
		fmt.Fprintf(w, "\n➕ Added %s (%d):\n", label, len(e.Added))
		for _, a := range e.Added {
			fmt.Fprintf(w, "  • %s\n", a.Path)
		}
	}

	if len(e.Updated) > 0 {
		fmt.Fprintf(w, "\n🔄 Updated %s (%d):\n", label, len(e.Updated))
		for _, u := range e.Updated {
			fmt.Fprintf(w, "  • %s:\n", u.Path)
			for _, fc := range u.Changes {
				fmt.Fprintf(w, "    - %s: %q → %q\n", fc.Field, fc.OldValue, fc.NewValue)
			}
		}
	}

	if len(e.Removed) > 0 {
		fmt.Fprintf(w, "\n⚠️  Removed %s (%d):\n", label, len(e.Removed))
		for _, r := range e.Removed {
			fmt.Fprintf(w, "  • %s\n", r.Path)
		}
	}
}

// ApplyStrategy represents which kinds of change a reconciliation may make.
type ApplyStrategy string

const (
	// ApplyAll applies all changes including removals.
	ApplyAll ApplyStrategy = "all"

	// ApplyAdditive only applies additions and updates, never removes.
	ApplyAdditive ApplyStrategy = "additive"

	// ApplyUpdatesOnly only applies updates to existing entities.
	ApplyUpdatesOnly ApplyStrategy = "updates-only"

	// ApplyAdditionsOnly only applies new additions.
	ApplyAdditionsOnly ApplyStrategy = "additions-only"
)

// Strategies lists every supported strategy.
var Strategies = []ApplyStrategy{ApplyAll, ApplyAdditive, ApplyUpdatesOnly, ApplyAdditionsOnly}

// ParseStrategy parses a strategy name; "" means ApplyAll.
func ParseStrategy(s string) (ApplyStrategy, error) {
	if s == "" {
		return ApplyAll, nil
	}
	for _, st := range Strategies {
		if string(st) == s {
			return st, nil
		}
	}
	return "", errors.NewConfigError("strategy", fmt.Sprintf("unknown strategy %q", s), nil)
}

// Allows reports whether changes of type t may be applied.
func (s ApplyStrategy) Allows(t ChangeType) bool {
	switch s {
	case ApplyAdditive:
		return t != ChangeTypeRemove
	case ApplyUpdatesOnly:
		return t == ChangeTypeUpdate
	case ApplyAdditionsOnly:
		return t == ChangeTypeAdd
	default:
		return true
	}
}

// Filter returns the part of the changeset the strategy allows.
func (c *Changeset) Filter(strategy ApplyStrategy) *Changeset {
	if strategy == ApplyAll || strategy == "" {
		return c
	}
	filtered := NewChangeset(c.Document)
	for _, kind := range recipe.Kinds {
		src, dst := c.For(kind), filtered.For(kind)
		if strategy.Allows(ChangeTypeAdd) {
			dst.Added = src.Added
		}
		if strategy.Allows(ChangeTypeUpdate) {
			dst.Updated = src.Updated
		}
		if strategy.Allows(ChangeTypeRemove) {
			dst.Removed = src.Removed
		}
	}
	filtered.Summary = calculateSummary(filtered.Parameters, filtered.FormulaValues)
	return filtered
}
