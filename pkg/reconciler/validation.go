package reconciler

import (
	"fmt"
	"strings"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/constants"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/errors"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/recipe"
)

// validateSheet checks every non-blank row of a sheet against its bound
// document without touching it and returns one RowError per offending row.
//
// A path must start with the document's RecipeElementID and a non-blank Name
// must equal the path's bracketed name, so every path stays the one Extract
// derives from the written tree.
//
// Defer targets resolve against the Parameter rows of the same sheet, not
// against the Parameters already in the document: a FormulaValue may only
// defer to a Parameter the sheet itself carries.
func validateSheet(doc *recipe.Document, sheet *recipe.Sheet) []*errors.RowError {
	params := make(map[string]bool)
	for _, row := range sheet.Rows {
		if row.TagType() == recipe.KindParameter.String() {
			if name := effectiveName(row); name != "" {
				params[name] = true
			}
		}
	}

	var (
		failures []*errors.RowError
		seen     = make(map[string]int)
	)
	for _, row := range sheet.Rows {
		if row.IsEmpty() {
			continue
		}
		if err := validateRow(doc, row, params, seen); err != nil {
			failures = append(failures, &errors.RowError{
				Sheet: sheet.Name,
				Line:  row.Line,
				Path:  row.FullPath(),
				Err:   err,
			})
		}
	}
	return failures
}

func validateRow(doc *recipe.Document, row *recipe.Row, params map[string]bool, seen map[string]int) error {
	kind, err := recipe.ParseKind(row.TagType())
	if err != nil {
		return err
	}

	path := row.FullPath()
	if path == "" {
		return errors.NewValidationError(constants.FieldFullPath, "", "required")
	}
	if k, ok := recipe.PathKind(path); !ok || k != kind {
		return errors.NewValidationError(constants.FieldFullPath, path, "does not address a "+kind.String())
	}

	if err := validateIdentity(doc, kind, row, path); err != nil {
		return err
	}

	key := kind.String() + "|" + path
	if line, dup := seen[key]; dup {
		return errors.NewValidationError(constants.FieldFullPath, path, duplicateMessage(line))
	}
	seen[key] = row.Line

	if err := recipe.CheckDataTypes(path, row); err != nil {
		return err
	}

	if kind == recipe.KindFormulaValue {
		target := strings.TrimSpace(row.Get(constants.FieldDefer))
		if target != "" && !params[target] {
			return errors.NewDeferResolutionError(path, target)
		}
	}
	return nil
}

// validateIdentity ties a row's path to the document and to its Name cell.
// With Name equal to the bracketed name, the duplicate path check also keeps
// names unique per kind within a parent.
func validateIdentity(doc *recipe.Document, kind recipe.Kind, row *recipe.Row, path string) error {
	if id := recipe.PathRecipeID(path); id != doc.RecipeID() {
		return errors.NewValidationError(constants.FieldFullPath, path,
			fmt.Sprintf("recipe id %q does not match %s (%q)", id, doc.Name(), doc.RecipeID()))
	}

	name := row.Name()
	if name == "" {
		if doc.Find(kind, path) == nil {
			return errors.NewValidationError(constants.FieldName, "", "required for a new "+kind.String())
		}
		return nil
	}
	if want := recipe.PathName(path); name != want {
		return errors.NewValidationError(constants.FieldName, name,
			fmt.Sprintf("does not match the FullPath name %q", want))
	}
	return nil
}

// effectiveName is the Name cell, or the path's bracketed name when blank.
func effectiveName(row *recipe.Row) string {
	if name := row.Name(); name != "" {
		return name
	}
	if path := row.FullPath(); path != "" {
		return recipe.PathName(path)
	}
	return ""
}

func duplicateMessage(line int) string {
	if line > 0 {
		return fmt.Sprintf("duplicate row, first seen at Row%d", line)
	}
	return "duplicate row"
}
