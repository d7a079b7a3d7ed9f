package output

import (
	"io"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/cmd/table"
)

// Print writes tableData for the table format and raw for every other
// format, so json and yaml keep the full structure.
func Print(w io.Writer, format string, tableData table.Data, raw any) error {
	f := DetectFormat(format)
	formatter := NewFormatter(f)
	if f == FormatTable {
		return formatter.Format(w, tableData)
	}
	return formatter.Format(w, raw)
}
