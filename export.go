package bulkedit

import (
	"context"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/internal/workbook"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ Exporter = (*client)(nil)

// Exporter writes recipes to a workbook.
type Exporter interface {
	// Export loads xmlPath with its children and writes one sheet per
	// document to excelPath.
	Export(ctx context.Context, xmlPath, excelPath string) (*ExportResult, error)
}

// ExportResult describes a written workbook.
type ExportResult struct {
	Workbook  string         `json:"workbook" yaml:"workbook"`
	Documents []string       `json:"documents" yaml:"documents"`
	Sheets    []string       `json:"sheets" yaml:"sheets"`
	Rows      map[string]int `json:"rows" yaml:"rows"` // data rows per document
}

// Export implements Exporter.
func (c *client) Export(ctx context.Context, xmlPath, excelPath string) (*ExportResult, error) {
	ctx = logging.WithOperation(ctx, "xml2excel")

	docs, err := c.load(ctx, xmlPath)
	if err != nil {
		return nil, err
	}
	if err := workbook.Export(ctx, excelPath, docs); err != nil {
		return nil, err
	}

	result := &ExportResult{
		Workbook:  excelPath,
		Documents: names(docs),
		Sheets:    workbook.SheetTitles(names(docs)),
		Rows:      make(map[string]int, len(docs)),
	}
	for _, d := range docs {
		result.Rows[d.Name()] = len(d.Rows())
	}
	return result, nil
}
