package recipe

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/constants"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/errors"
)

// Document is one recipe file: its element tree plus the Parameters and
// FormulaValues extracted from it.
type Document struct {
	source        string
	tree          *etree.Document
	recipeID      string
	parameters    []*Entity
	formulaValues []*Entity
}

// NewDocument wraps a parsed tree. Call Extract before using the entities.
func NewDocument(source string, tree *etree.Document) *Document {
	return &Document{source: source, tree: tree}
}

// ParseDocument parses data and extracts its entities.
func ParseDocument(source string, data []byte) (*Document, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(data); err != nil {
		return nil, errors.WrapParse("xml", source, err)
	}
	doc := NewDocument(source, tree)
	if err := doc.Extract(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Source returns the path the document was read from.
func (d *Document) Source() string { return d.source }

// Name returns the base name of the source file. Sheets bind to documents
// by this name.
func (d *Document) Name() string { return filepath.Base(d.source) }

// RecipeID returns the text of the root RecipeElementID.
func (d *Document) RecipeID() string { return d.recipeID }

// Tree returns the underlying element tree.
func (d *Document) Tree() *etree.Document { return d.tree }

// Parameters returns the Parameters in document order.
func (d *Document) Parameters() []*Entity { return d.parameters }

// FormulaValues returns the FormulaValues in depth-first step order.
func (d *Document) FormulaValues() []*Entity { return d.formulaValues }

// Entities returns the collection for kind.
func (d *Document) Entities(kind Kind) []*Entity {
	if kind == KindParameter {
		return d.parameters
	}
	return d.formulaValues
}

// Extract walks the tree and rebuilds both entity collections.
//
// Parameters are the direct Parameter children of the root. FormulaValues
// are found under Steps/Step, each step's own values before those of its
// nested steps.
func (d *Document) Extract() error {
	root := d.tree.Root()
	if root == nil {
		return &errors.StructureError{Path: d.Name(), Message: "document has no root element"}
	}

	d.recipeID = childText(root, constants.ElementRecipeID)
	d.parameters = nil
	d.formulaValues = nil

	seen := make(map[string]bool)
	for _, p := range root.SelectElements(constants.ElementParameter) {
		path := parameterPath(d.recipeID, childText(p, constants.FieldName))
		if seen[path] {
			return errors.NewValidationError(constants.FieldFullPath, path, "duplicate path in "+d.Name())
		}
		seen[path] = true
		d.parameters = append(d.parameters, newEntity(KindParameter, path, nil, p))
	}

	return d.walkSteps(root, nil, seen)
}

func (d *Document) walkSteps(parent *etree.Element, chain []string, seen map[string]bool) error {
	steps := parent.SelectElement(constants.ElementSteps)
	if steps == nil {
		return nil
	}
	for _, step := range steps.SelectElements(constants.ElementStep) {
		c := make([]string, len(chain), len(chain)+1)
		copy(c, chain)
		c = append(c, stepName(step))

		for _, fv := range step.SelectElements(constants.ElementFormulaValue) {
			path := formulaValuePath(d.recipeID, c, childText(fv, constants.FieldName))
			if seen[path] {
				return errors.NewValidationError(constants.FieldFullPath, path, "duplicate path in "+d.Name())
			}
			seen[path] = true
			d.formulaValues = append(d.formulaValues, newEntity(KindFormulaValue, path, c, fv))
		}
		if err := d.walkSteps(step, c, seen); err != nil {
			return err
		}
	}
	return nil
}

// Find returns the entity of kind at path, or nil.
func (d *Document) Find(kind Kind, path string) *Entity {
	for _, e := range d.Entities(kind) {
		if e.path == path {
			return e
		}
	}
	return nil
}

// Create inserts a new entity built from row and registers it.
//
// A Parameter goes right after the last existing Parameter, else right
// before the Steps container, else at the end of the root. A FormulaValue
// is appended to the step its path names; a missing step is a
// StructureError.
func (d *Document) Create(kind Kind, row *Row) (*Entity, error) {
	root := d.tree.Root()
	if root == nil {
		return nil, &errors.StructureError{Path: d.Name(), Message: "document has no root element"}
	}
	path := row.FullPath()

	var e *Entity
	switch kind {
	case KindParameter:
		el := etree.NewElement(constants.ElementParameter)
		el.Space = root.Space
		insertParameter(root, el)
		e = newEntity(kind, path, nil, el)
		d.parameters = append(d.parameters, e)
	case KindFormulaValue:
		steps := stepChain(path)
		if steps == nil {
			return nil, errors.NewValidationError(constants.FieldFullPath, path, "not a FormulaValue path")
		}
		step, err := d.locateStep(path, steps)
		if err != nil {
			return nil, err
		}
		e = newEntity(kind, path, steps, newChild(step, constants.ElementFormulaValue))
		d.formulaValues = append(d.formulaValues, e)
	default:
		return nil, errors.NewValidationError(constants.FieldTagType, kind, "unknown entity kind")
	}

	if _, err := e.Patch(row); err != nil {
		return e, err
	}
	return e, nil
}

func insertParameter(root, el *etree.Element) {
	var last, steps *etree.Element
	for _, c := range root.ChildElements() {
		switch c.Tag {
		case constants.ElementParameter:
			last = c
		case constants.ElementSteps:
			if steps == nil {
				steps = c
			}
		}
	}
	switch {
	case last != nil:
		root.InsertChildAt(last.Index()+1, el)
	case steps != nil:
		root.InsertChildAt(steps.Index(), el)
	default:
		root.AddChild(el)
	}
}

// locateStep follows a chain of step names down from the root.
func (d *Document) locateStep(path string, steps []string) (*etree.Element, error) {
	cur := d.tree.Root()
	for _, name := range steps {
		container := cur.SelectElement(constants.ElementSteps)
		if container == nil {
			return nil, errors.NewStructureError(path, name)
		}
		var next *etree.Element
		for _, s := range container.SelectElements(constants.ElementStep) {
			if stepName(s) == name {
				next = s
				break
			}
		}
		if next == nil {
			return nil, errors.NewStructureError(path, name)
		}
		cur = next
	}
	return cur, nil
}

// Delete detaches the entity's node from the tree and drops it from its
// collection.
func (d *Document) Delete(e *Entity) error {
	list := d.Entities(e.kind)
	idx := -1
	for i, x := range list {
		if x == e {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errors.NewValidationError(constants.FieldFullPath, e.path, fmt.Sprintf("entity not owned by %s", d.Name()))
	}

	if parent := e.element.Parent(); parent != nil {
		parent.RemoveChild(e.element)
	}
	list = append(list[:idx], list[idx+1:]...)
	if e.kind == KindParameter {
		d.parameters = list
	} else {
		d.formulaValues = list
	}
	return nil
}

// Clone returns an independent document re-extracted from a deep copy of
// the current tree.
func (d *Document) Clone() (*Document, error) {
	c := NewDocument(d.source, d.tree.Copy())
	if err := c.Extract(); err != nil {
		return nil, err
	}
	return c, nil
}

// Rows projects every entity, Parameters first.
func (d *Document) Rows() []*Row {
	rows := make([]*Row, 0, len(d.parameters)+len(d.formulaValues))
	for _, e := range d.parameters {
		rows = append(rows, e.ToRow())
	}
	for _, e := range d.formulaValues {
		rows = append(rows, e.ToRow())
	}
	return rows
}

// ParameterNames returns the current Name of every Parameter.
func (d *Document) ParameterNames() map[string]bool {
	names := make(map[string]bool, len(d.parameters))
	for _, e := range d.parameters {
		names[e.Name()] = true
	}
	return names
}

// ChildRecipes returns every StepRecipeID referenced by the document, in
// order and without duplicates.
func (d *Document) ChildRecipes() []string {
	root := d.tree.Root()
	if root == nil {
		return nil
	}
	seen := make(map[string]bool)
	var ids []string
	for _, el := range root.FindElements(".//" + constants.ElementStepRecipeID) {
		id := strings.TrimSpace(el.Text())
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

func childText(el *etree.Element, tag string) string {
	if c := el.SelectElement(tag); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}

func stepName(step *etree.Element) string {
	if name := childText(step, constants.FieldName); name != "" {
		return name
	}
	return constants.DefaultStepName
}
