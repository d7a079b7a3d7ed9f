package recipe

import (
	"sort"
	"strings"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/constants"
)

// Fields is a string mapping that remembers insertion order.
// The zero value is ready to use.
type Fields struct {
	keys   []string
	values map[string]string
}

// NewFields builds Fields from alternating key, value pairs.
func NewFields(pairs ...string) Fields {
	var f Fields
	for i := 0; i+1 < len(pairs); i += 2 {
		f.Set(pairs[i], pairs[i+1])
	}
	return f
}

// Set stores value under key, keeping the key's original position if present.
func (f *Fields) Set(key, value string) {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns the value for key, or "" if absent.
func (f *Fields) Get(key string) string {
	return f.values[key]
}

// Lookup returns the value for key and whether it was present.
func (f *Fields) Lookup(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Has reports whether key is present.
func (f *Fields) Has(key string) bool {
	_, ok := f.values[key]
	return ok
}

// Keys returns the keys in insertion order.
func (f *Fields) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// Len returns the number of keys.
func (f *Fields) Len() int {
	return len(f.keys)
}

// Clone returns an independent copy.
func (f *Fields) Clone() Fields {
	var out Fields
	for _, k := range f.keys {
		out.Set(k, f.values[k])
	}
	return out
}

// Map returns an unordered copy.
func (f *Fields) Map() map[string]string {
	out := make(map[string]string, len(f.keys))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Row is one line of the edit surface: field name to cell text.
// Line is the 1-based line in the source sheet, or 0 when unknown.
type Row struct {
	Fields
	Line int
}

// NewRow builds a Row from alternating key, value pairs.
func NewRow(pairs ...string) *Row {
	return &Row{Fields: NewFields(pairs...)}
}

// TagType returns the trimmed TagType cell.
func (r *Row) TagType() string {
	return strings.TrimSpace(r.Get(constants.FieldTagType))
}

// FullPath returns the trimmed FullPath cell.
func (r *Row) FullPath() string {
	return strings.TrimSpace(r.Get(constants.FieldFullPath))
}

// Name returns the trimmed Name cell.
func (r *Row) Name() string {
	return strings.TrimSpace(r.Get(constants.FieldName))
}

// IsEmpty reports whether every cell of the row is blank.
func (r *Row) IsEmpty() bool {
	for _, k := range r.keys {
		if !IsBlank(r.values[k]) {
			return false
		}
	}
	return true
}

// Sheet is a named table of rows bound to one document by name.
type Sheet struct {
	Name   string
	Header []string
	Rows   []*Row
}

// IsBlank reports whether a cell carries no value.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Header returns the fixed columns followed by the sorted union of every
// other field found in rows.
func Header(rows []*Row) []string {
	fixed := make(map[string]bool, len(constants.Columns))
	for _, c := range constants.Columns {
		fixed[c] = true
	}

	extra := make(map[string]bool)
	for _, r := range rows {
		for _, k := range r.keys {
			if !fixed[k] {
				extra[k] = true
			}
		}
	}

	extras := make([]string, 0, len(extra))
	for k := range extra {
		extras = append(extras, k)
	}
	sort.Strings(extras)

	header := make([]string, 0, len(constants.Columns)+len(extras))
	header = append(header, constants.Columns...)
	return append(header, extras...)
}
