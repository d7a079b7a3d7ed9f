// Package output renders command results as a table, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/cmd/constants"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/cmd/table"
)

// Format names an output rendering.
type Format string

// Supported formats.
const (
	FormatTable Format = constants.FormatTable
	FormatJSON  Format = constants.FormatJSON
	FormatYAML  Format = constants.FormatYAML
)

// Formatter writes data to w in one format.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// NewFormatter returns the formatter for format. Unknown formats render as a table.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TableFormatter{}
	}
}

// JSONFormatter writes indented JSON.
type JSONFormatter struct {
	Indent string
}

// Format implements Formatter.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", f.Indent)
	return enc.Encode(data)
}

// YAMLFormatter writes block-style YAML.
type YAMLFormatter struct{}

// Format implements Formatter.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	b, err := yaml.MarshalWithOptions(data, yaml.Indent(2), yaml.IndentSequence(false))
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// TableFormatter writes table.Data, or structs and struct slices projected
// onto a table. Anything else falls back to JSON.
type TableFormatter struct{}

// Format implements Formatter.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case table.Data:
		return render(w, v)
	case *table.Data:
		return render(w, *v)
	}
	if d := f.convertToTableData(data); d != nil {
		return render(w, *d)
	}
	return (&JSONFormatter{Indent: "  "}).Format(w, data)
}

var alignments = map[table.Align]tw.Align{
	table.AlignLeft:   tw.AlignLeft,
	table.AlignCenter: tw.AlignCenter,
	table.AlignRight:  tw.AlignRight,
}

func render(w io.Writer, data table.Data) error {
	var cfg tablewriter.Config
	if len(data.ColumnAlignment) > 0 {
		perColumn := make([]tw.Align, len(data.ColumnAlignment))
		for i, a := range data.ColumnAlignment {
			if mapped, ok := alignments[a]; ok {
				perColumn[i] = mapped
			} else {
				perColumn[i] = tw.Skip
			}
		}
		cfg.Header.Alignment = tw.CellAlignment{PerColumn: perColumn}
		cfg.Row.Alignment = tw.CellAlignment{PerColumn: perColumn}
	}
	tbl := tablewriter.NewTable(w, tablewriter.WithConfig(cfg))

	if len(data.Headers) > 0 {
		tbl.Header(cells(data.Headers)...)
	}
	for _, row := range data.Rows {
		if err := tbl.Append(cells(row)...); err != nil {
			return err
		}
	}
	return tbl.Render()
}

func cells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// DetectFormat returns explicit when set, table on a terminal and JSON when piped.
func DetectFormat(explicit string) Format {
	if explicit != "" {
		return Format(strings.ToLower(explicit))
	}
	if fd := os.Stdout.Fd(); isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return FormatTable
	}
	return FormatJSON
}

// ParseFormat validates s. An empty string means auto-detect.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(s))
	switch format {
	case FormatTable, FormatJSON, FormatYAML, "":
		return format, nil
	}
	return "", fmt.Errorf("invalid format %q: must be one of: table, json, yaml", s)
}

// convertToTableData projects a struct slice onto one row per element, or a
// single struct onto Property/Value rows. It returns nil for anything else.
func (f *TableFormatter) convertToTableData(data any) *table.Data {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}

	switch {
	case v.Kind() == reflect.Slice && v.Len() > 0 && v.Index(0).Kind() == reflect.Struct:
		fields := exportedFields(v.Index(0).Type())
		d := &table.Data{}
		for _, field := range fields {
			d.Headers = append(d.Headers, columnName(field))
		}
		for i := 0; i < v.Len(); i++ {
			row := make([]string, len(fields))
			for j, field := range fields {
				row[j] = cellText(v.Index(i).FieldByIndex(field.Index))
			}
			d.Rows = append(d.Rows, row)
		}
		return d

	case v.Kind() == reflect.Struct:
		d := &table.Data{Headers: []string{"Property", "Value"}}
		for _, field := range exportedFields(v.Type()) {
			d.Rows = append(d.Rows, []string{columnName(field), cellText(v.FieldByIndex(field.Index))})
		}
		return d
	}
	return nil
}

func exportedFields(t reflect.Type) []reflect.StructField {
	var out []reflect.StructField
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.IsExported() && field.Tag.Get("json") != "-" {
			out = append(out, field)
		}
	}
	return out
}

// columnName title-cases the json name of field, or uses the Go name.
func columnName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" {
		return field.Name
	}
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

func cellText(v reflect.Value) string {
	if t, ok := v.Interface().(time.Time); ok {
		return t.Local().Format(time.DateTime)
	}
	return fmt.Sprintf("%v", v.Interface())
}
