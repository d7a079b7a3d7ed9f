package recipe

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/constants"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/errors"
)

// Entity is one editable node of a recipe tree: a Parameter or a FormulaValue.
// The path is fixed at construction; the snapshot records the node's field
// texts as they were when the entity was extracted.
type Entity struct {
	kind     Kind
	path     string
	steps    []string
	element  *etree.Element
	original Fields
	limit    *limitSnapshot
}

// FieldChange records one field written or removed by Patch.
type FieldChange struct {
	Field    string
	OldValue string
	NewValue string
	Created  bool
	Removed  bool
}

// limitSnapshot is the state of a FormulaValueLimit block at extraction.
type limitSnapshot struct {
	verification    string
	hasVerification bool
	fields          Fields
}

func newEntity(kind Kind, path string, steps []string, el *etree.Element) *Entity {
	e := &Entity{
		kind:     kind,
		path:     path,
		steps:    steps,
		element:  el,
		original: snapshot(el),
	}
	if kind == KindFormulaValue {
		if lim := el.SelectElement(constants.ElementLimit); lim != nil {
			e.limit = snapshotLimit(lim)
		}
	}
	return e
}

// snapshot maps each child element's local name to its text in document order.
// Children that hold elements of their own snapshot as "".
func snapshot(el *etree.Element) Fields {
	var f Fields
	for _, c := range el.ChildElements() {
		f.Set(c.Tag, leafText(c))
	}
	return f
}

func snapshotLimit(el *etree.Element) *limitSnapshot {
	l := &limitSnapshot{fields: snapshot(el)}
	if attr := el.SelectAttr(constants.AttrLimitVerify); attr != nil {
		l.verification = attr.Value
		l.hasVerification = true
	}
	return l
}

// restore rebuilds the block under parent from the snapshot.
func (l *limitSnapshot) restore(parent *etree.Element) *etree.Element {
	el := newChild(parent, constants.ElementLimit)
	if l.hasVerification {
		el.CreateAttr(constants.AttrLimitVerify, l.verification)
	}
	for _, k := range l.fields.Keys() {
		sub := newChild(el, k)
		if v := l.fields.Get(k); v != "" {
			sub.SetText(v)
		}
	}
	return el
}

func leafText(el *etree.Element) string {
	if len(el.ChildElements()) > 0 {
		return ""
	}
	return el.Text()
}

// newChild appends an element in the parent's namespace prefix.
func newChild(parent *etree.Element, tag string) *etree.Element {
	c := parent.CreateElement(tag)
	c.Space = parent.Space
	return c
}

// Kind returns the entity kind.
func (e *Entity) Kind() Kind { return e.kind }

// Path returns the entity's identity path.
func (e *Entity) Path() string { return e.path }

// Element returns the live tree node.
func (e *Entity) Element() *etree.Element { return e.element }

// Original returns a copy of the extraction snapshot.
func (e *Entity) Original() Fields { return e.original.Clone() }

// Name returns the current trimmed Name text.
func (e *Entity) Name() string {
	if n := e.element.SelectElement(constants.FieldName); n != nil {
		return strings.TrimSpace(n.Text())
	}
	return ""
}

// Step returns the step chain of a FormulaValue joined by "/", or "" for
// Parameters.
func (e *Entity) Step() string {
	return strings.Join(e.steps, "/")
}

// Deferred reports whether the entity currently defers to a Parameter.
func (e *Entity) Deferred() bool {
	d := e.element.SelectElement(constants.FieldDefer)
	return d != nil && !IsBlank(d.Text())
}

// ToRow projects the extraction snapshot onto a Row.
func (e *Entity) ToRow() *Row {
	row := &Row{}
	row.Set(constants.FieldTagType, e.kind.String())
	row.Set(constants.FieldName, e.original.Get(constants.FieldName))
	row.Set(constants.FieldFullPath, e.path)

	switch e.kind {
	case KindParameter:
		for _, k := range projected[KindParameter] {
			row.Set(k, e.original.Get(k))
		}
		row.Set(constants.FieldDefer, "")
	case KindFormulaValue:
		deferTo := e.original.Get(constants.FieldDefer)
		row.Set(constants.FieldDefer, deferTo)
		if IsBlank(deferTo) {
			row.Set(constants.FieldValue, e.original.Get(constants.FieldValue))
		} else {
			row.Set(constants.FieldValue, "")
		}
		for _, k := range projected[KindFormulaValue] {
			row.Set(k, e.original.Get(k))
		}
		e.projectLimit(row)
	}

	for _, k := range e.original.Keys() {
		if k == constants.ElementLimit || row.Has(k) {
			continue
		}
		row.Set(k, e.original.Get(k))
	}
	return row
}

// CurrentRow projects the live node rather than the extraction snapshot.
func (e *Entity) CurrentRow() *Row {
	return newEntity(e.kind, e.path, e.steps, e.element).ToRow()
}

func (e *Entity) projectLimit(row *Row) {
	row.Set(constants.LimitColumnPrefix+constants.AttrLimitVerify, "")
	for _, k := range constants.LimitFields {
		row.Set(constants.LimitColumnPrefix+k, "")
	}
	if e.limit == nil {
		return
	}
	row.Set(constants.LimitColumnPrefix+constants.AttrLimitVerify, e.limit.verification)
	for _, k := range e.limit.fields.Keys() {
		row.Set(constants.LimitColumnPrefix+k, e.limit.fields.Get(k))
	}
}

// Apply writes the row onto the live node and reports whether anything changed.
func (e *Entity) Apply(row *Row) (bool, error) {
	changes, err := e.Patch(row)
	return len(changes) > 0, err
}

// Patch writes the row onto the live node and returns every field change.
//
// A blank cell never erases a value. A non-blank cell creates or updates
// the matching child. Writing one data type removes any other data type,
// and Defer and Value replace each other on FormulaValues. The node is
// reordered canonically whenever something changed.
func (e *Entity) Patch(row *Row) ([]FieldChange, error) {
	if err := CheckDataTypes(e.path, row); err != nil {
		return nil, err
	}

	deferring := e.kind == KindFormulaValue && !IsBlank(row.Get(constants.FieldDefer))

	var changes []FieldChange
	for _, key := range row.Keys() {
		if e.skipField(key) {
			continue
		}
		value := row.Get(key)
		if IsBlank(value) {
			continue
		}
		if deferring && key == constants.FieldValue {
			continue
		}
		if c, ok := setText(e.element, key, value); ok {
			changes = append(changes, c)
		}
	}

	if t := dataType(row); t != "" {
		for _, other := range constants.DataTypeFields {
			if other != t {
				changes = appendRemoval(changes, e.element, other)
			}
		}
	}

	if e.kind == KindFormulaValue {
		if deferring {
			changes = appendRemoval(changes, e.element, constants.FieldValue)
		} else if !IsBlank(row.Get(constants.FieldValue)) {
			changes = appendRemoval(changes, e.element, constants.FieldDefer)
		}
		changes = append(changes, e.patchLimit(row)...)
	}

	if len(changes) == 0 {
		return nil, nil
	}
	return changes, e.Reorder()
}

func (e *Entity) skipField(key string) bool {
	switch key {
	case constants.FieldTagType, constants.FieldFullPath, constants.ElementLimit:
		return true
	case constants.FieldDefer:
		return e.kind == KindParameter
	}
	return strings.HasPrefix(key, constants.LimitColumnPrefix)
}

// patchLimit applies the FormulaValueLimit_* cells of a row.
func (e *Entity) patchLimit(row *Row) []FieldChange {
	var keys []string
	for _, k := range row.Keys() {
		if strings.HasPrefix(k, constants.LimitColumnPrefix) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil
	}

	var changes []FieldChange
	el := e.element.SelectElement(constants.ElementLimit)
	if el == nil {
		switch {
		case e.limit != nil:
			el = e.limit.restore(e.element)
		case allBlank(row, keys):
			return nil
		default:
			el = newChild(e.element, constants.ElementLimit)
		}
		changes = append(changes, FieldChange{Field: constants.ElementLimit, Created: true})
	}

	for _, k := range keys {
		v := row.Get(k)
		if IsBlank(v) {
			continue
		}
		suffix := strings.TrimPrefix(k, constants.LimitColumnPrefix)
		if suffix != constants.AttrLimitVerify {
			if c, ok := setText(el, suffix, v); ok {
				c.Field = k
				changes = append(changes, c)
			}
			continue
		}
		attr := el.SelectAttr(constants.AttrLimitVerify)
		if attr != nil && attr.Value == v {
			continue
		}
		c := FieldChange{Field: k, NewValue: v, Created: attr == nil}
		if attr != nil {
			c.OldValue = attr.Value
		}
		el.CreateAttr(constants.AttrLimitVerify, v)
		changes = append(changes, c)
	}
	return changes
}

// setText creates or updates the first child named tag.
func setText(parent *etree.Element, tag, value string) (FieldChange, bool) {
	child := parent.SelectElement(tag)
	if child == nil {
		child = newChild(parent, tag)
		child.SetText(value)
		return FieldChange{Field: tag, NewValue: value, Created: true}, true
	}
	old := child.Text()
	if old == value {
		return FieldChange{}, false
	}
	child.SetText(value)
	return FieldChange{Field: tag, OldValue: old, NewValue: value}, true
}

func appendRemoval(changes []FieldChange, parent *etree.Element, tag string) []FieldChange {
	child := parent.SelectElement(tag)
	if child == nil {
		return changes
	}
	old := leafText(child)
	parent.RemoveChild(child)
	return append(changes, FieldChange{Field: tag, OldValue: old, Removed: true})
}

func allBlank(row *Row, keys []string) bool {
	for _, k := range keys {
		if !IsBlank(row.Get(k)) {
			return false
		}
	}
	return true
}

// dataType returns the single populated data-type field of a row, or "".
func dataType(row *Row) string {
	for _, k := range constants.DataTypeFields {
		if !IsBlank(row.Get(k)) {
			return k
		}
	}
	return ""
}

// CheckDataTypes enforces that at most one of Real, Integer, String and
// EnumerationSet is populated. Defer is not a data type: a deferred
// FormulaValue still carries its typed default.
func CheckDataTypes(path string, row *Row) error {
	var set []string
	for _, k := range constants.DataTypeFields {
		if !IsBlank(row.Get(k)) {
			set = append(set, k)
		}
	}
	if len(set) > 1 {
		return errors.NewTypeConflictError(path, set)
	}
	return nil
}
