// Package workbook is the spreadsheet edit surface: one sheet per recipe
// document, one row per Parameter or FormulaValue.
package workbook

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/errors"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/logging"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/recipe"
)

// MaxTitleLength is the longest sheet title a workbook accepts.
const MaxTitleLength = 31

const defaultSheet = "Sheet1"

var titleReplacer = strings.NewReplacer(
	":", "_", `\`, "_", "/", "_", "?", "_",
	"*", "_", "[", "_", "]", "_",
)

// SheetTitles returns one valid, unique sheet title per document name, in
// order. Titles are unique without regard to case.
func SheetTitles(names []string) []string {
	titles := make([]string, len(names))
	used := make(map[string]bool, len(names))
	for i, name := range names {
		base := sanitize(name)
		title := base
		for n := 2; used[strings.ToLower(title)]; n++ {
			suffix := fmt.Sprintf("~%d", n)
			title = truncate(base, MaxTitleLength-len(suffix)) + suffix
		}
		used[strings.ToLower(title)] = true
		titles[i] = title
	}
	return titles
}

func sanitize(name string) string {
	s := strings.Trim(titleReplacer.Replace(name), "'")
	if s == "" {
		s = "Recipe"
	}
	return truncate(s, MaxTitleLength)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// Export writes one sheet per document to path. Every sheet shares one
// header: the fixed columns followed by the sorted union of every extra
// field across all documents.
func Export(ctx context.Context, path string, docs []*recipe.Document) error {
	if len(docs) == 0 {
		return errors.NewValidationError("documents", nil, "nothing to export")
	}
	logger := logging.FromContext(ctx)

	names := make([]string, len(docs))
	perDoc := make([][]*recipe.Row, len(docs))
	var all []*recipe.Row
	for i, doc := range docs {
		names[i] = doc.Name()
		perDoc[i] = doc.Rows()
		all = append(all, perDoc[i]...)
		logger.Debug().Str("sheet", doc.Name()).Int("rows", len(perDoc[i])).Msg("Prepared rows for sheet")
	}
	header := recipe.Header(all)
	titles := SheetTitles(names)

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, title := range titles {
		if err := ctx.Err(); err != nil {
			return errors.WrapResource("export", "workbook", path, err)
		}
		if err := addSheet(f, i, title); err != nil {
			return errors.WrapResource("create", "sheet", title, err)
		}
		if err := writeRows(f, title, header, perDoc[i]); err != nil {
			return errors.WrapResource("write", "sheet", title, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.WrapIO("write", path, err)
	}
	logger.Info().Str("path", path).Int("sheets", len(titles)).Msg("Excel written")
	return nil
}

func addSheet(f *excelize.File, index int, title string) error {
	if index == 0 {
		return f.SetSheetName(defaultSheet, title)
	}
	_, err := f.NewSheet(title)
	return err
}

func writeRows(f *excelize.File, sheet string, header []string, rows []*recipe.Row) error {
	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
		return err
	}

	for r, row := range rows {
		values := make([]interface{}, len(header))
		for i, h := range header {
			values[i] = row.Get(h)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// Read returns every sheet of the workbook at path. Sheet titles that
// Export derived from one of docNames are mapped back to that name; other
// titles are kept as they are. Row.Line is the 1-based spreadsheet row.
func Read(ctx context.Context, path string, docNames []string) ([]recipe.Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.WrapParse("xlsx", path, err)
	}
	defer func() { _ = f.Close() }()

	byTitle := make(map[string]string, len(docNames))
	for i, title := range SheetTitles(docNames) {
		byTitle[title] = docNames[i]
	}

	logger := logging.FromContext(ctx)
	var sheets []recipe.Sheet
	for _, title := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapResource("read", "workbook", path, err)
		}
		rows, err := f.GetRows(title, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, errors.WrapParse("xlsx", path, err)
		}

		name := title
		if n, ok := byTitle[title]; ok {
			name = n
		}
		sheet := toSheet(name, rows)
		logger.Debug().Str("sheet", title).Int("rows", len(sheet.Rows)).Msg("Read sheet")
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

// toSheet keys each data row by the header. Columns with a blank header
// are dropped; short rows are padded with "".
func toSheet(name string, rows [][]string) recipe.Sheet {
	sheet := recipe.Sheet{Name: name}
	if len(rows) == 0 {
		return sheet
	}

	for _, h := range rows[0] {
		sheet.Header = append(sheet.Header, strings.TrimSpace(h))
	}

	for i, cells := range rows[1:] {
		row := &recipe.Row{Line: i + 2}
		for c, h := range sheet.Header {
			if h == "" {
				continue
			}
			v := ""
			if c < len(cells) {
				v = cells[c]
			}
			row.Set(h, v)
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}
