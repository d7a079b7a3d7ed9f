package differ

import (
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/constants"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/recipe"
)

// Differ detects changes between two versions of a recipe document.
type Differ interface {
	// Documents compares entities by path and their live field texts.
	Documents(existing, updated *recipe.Document) *Changeset

	// Entities compares one collection of entities.
	Entities(existing, updated []*recipe.Entity) *EntityChangeset
}

// differ is the default implementation of Differ.
type differ struct {
	ignoreFields map[string]bool
}

// Option is a functional option for configuring a Differ.
type Option func(*differ)

// WithIgnoredFields sets fields to ignore during comparison.
func WithIgnoredFields(fields ...string) Option {
	return func(d *differ) {
		for _, field := range fields {
			d.ignoreFields[field] = true
		}
	}
}

// New creates a Differ. TagType and FullPath are never compared.
func New(opts ...Option) Differ {
	d := &differ{
		ignoreFields: map[string]bool{
			constants.FieldTagType:  true,
			constants.FieldFullPath: true,
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Documents compares two documents and returns changes.
func (d *differ) Documents(existing, updated *recipe.Document) *Changeset {
	cs := NewChangeset(updated.Name())
	cs.Parameters = d.Entities(existing.Parameters(), updated.Parameters())
	cs.FormulaValues = d.Entities(existing.FormulaValues(), updated.FormulaValues())
	cs.Summary = calculateSummary(cs.Parameters, cs.FormulaValues)
	return cs
}

// Entities compares two entity collections by path.
func (d *differ) Entities(existing, updated []*recipe.Entity) *EntityChangeset {
	set := &EntityChangeset{}

	existingMap := make(map[string]*recipe.Entity, len(existing))
	for _, e := range existing {
		existingMap[e.Path()] = e
	}
	updatedMap := make(map[string]bool, len(updated))

	for _, u := range updated {
		updatedMap[u.Path()] = true
		old, ok := existingMap[u.Path()]
		if !ok {
			set.Added = append(set.Added, ChangeFromEntity(u))
			continue
		}
		if changes := d.fields(old.CurrentRow(), u.CurrentRow()); len(changes) > 0 {
			change := ChangeFromEntity(u)
			change.Changes = changes
			set.Updated = append(set.Updated, change)
		}
	}

	for _, e := range existing {
		if !updatedMap[e.Path()] {
			set.Removed = append(set.Removed, ChangeFromEntity(e))
		}
	}
	return set
}

// fields compares two projected rows over the union of their keys.
func (d *differ) fields(old, updated *recipe.Row) []FieldChange {
	keys := old.Keys()
	for _, k := range updated.Keys() {
		if !old.Has(k) {
			keys = append(keys, k)
		}
	}

	var changes []FieldChange
	for _, k := range keys {
		if d.ignoreFields[k] {
			continue
		}
		ov, nv := old.Get(k), updated.Get(k)
		if ov == nv {
			continue
		}
		t := ChangeTypeUpdate
		switch {
		case ov == "":
			t = ChangeTypeAdd
		case nv == "":
			t = ChangeTypeRemove
		}
		changes = append(changes, FieldChange{Field: k, OldValue: ov, NewValue: nv, Type: t})
	}
	return changes
}
