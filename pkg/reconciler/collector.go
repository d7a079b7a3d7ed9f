package reconciler

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/recipe"
)

// binding pairs a sheet with the document it edits.
type binding struct {
	doc   *recipe.Document
	sheet *recipe.Sheet
}

// collector matches sheets to documents by name.
type collector struct {
	docs   []*recipe.Document
	byName map[string]*recipe.Document
	logger *zerolog.Logger
}

// newCollector indexes documents by base name. The first document with a
// given name wins.
func newCollector(docs []*recipe.Document, logger *zerolog.Logger) *collector {
	c := &collector{
		docs:   docs,
		byName: make(map[string]*recipe.Document, len(docs)),
		logger: logger,
	}
	for _, d := range docs {
		if _, exists := c.byName[d.Name()]; !exists {
			c.byName[d.Name()] = d
		}
	}
	return c
}

// find returns the document named by a sheet, trying an exact match first
// and then a case-insensitive one.
func (c *collector) find(sheet string) *recipe.Document {
	if d, ok := c.byName[sheet]; ok {
		return d
	}
	for _, d := range c.docs {
		if strings.EqualFold(d.Name(), sheet) {
			return d
		}
	}
	return nil
}

// bind matches every sheet and returns warnings for the sheets that name
// no document. A document matched by more than one sheet is bound once.
func (c *collector) bind(sheets []recipe.Sheet) ([]binding, []string) {
	var (
		bindings []binding
		warnings []string
		bound    = make(map[*recipe.Document]string)
	)

	for i := range sheets {
		sheet := &sheets[i]
		doc := c.find(sheet.Name)
		if doc == nil {
			msg := "no matching XML for sheet '" + sheet.Name + "', skipping"
			c.logger.Warn().Str("sheet", sheet.Name).Msg("No matching XML for sheet, skipping")
			warnings = append(warnings, msg)
			continue
		}
		if prev, dup := bound[doc]; dup {
			msg := "sheet '" + sheet.Name + "' targets " + doc.Name() + " already edited by sheet '" + prev + "', skipping"
			c.logger.Warn().
				Str("sheet", sheet.Name).
				Str("document", doc.Name()).
				Msg("Document already bound to another sheet, skipping")
			warnings = append(warnings, msg)
			continue
		}
		bound[doc] = sheet.Name
		bindings = append(bindings, binding{doc: doc, sheet: sheet})
	}
	return bindings, warnings
}
