package recipe

import (
	"github.com/beevik/etree"

	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/constants"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/errors"
)

// slot is one position of a canonical child order. Required slots are
// synthesized as empty elements when missing.
type slot struct {
	tag      string
	required bool
}

// typePriority decides which data type drives the layout when a node
// carries more than one.
var typePriority = []string{
	constants.FieldString,
	constants.FieldInteger,
	constants.FieldReal,
	constants.FieldEnumerationSet,
}

var parameterOrderings = map[string][]string{
	constants.FieldString: {
		constants.FieldName, constants.FieldERPAlias, constants.FieldPLCReference,
		constants.FieldString, constants.FieldEngineeringUnits,
	},
	constants.FieldInteger: {
		constants.FieldName, constants.FieldERPAlias, constants.FieldPLCReference,
		constants.FieldInteger, constants.FieldHigh, constants.FieldLow,
		constants.FieldEngineeringUnits, constants.FieldScale,
	},
	constants.FieldReal: {
		constants.FieldName, constants.FieldERPAlias, constants.FieldPLCReference,
		constants.FieldReal, constants.FieldHigh, constants.FieldLow,
		constants.FieldEngineeringUnits, constants.FieldScale,
	},
	constants.FieldEnumerationSet: {
		constants.FieldName, constants.FieldERPAlias, constants.FieldPLCReference,
		constants.FieldEnumerationSet, constants.FieldEnumerationMember,
	},
}

// Reorder rearranges the node's children into the canonical order for its
// kind. Children outside the canonical slots keep their relative order
// after them. Reorder is idempotent.
func (e *Entity) Reorder() error {
	switch e.kind {
	case KindParameter:
		typ := presentType(e.element)
		if typ == "" {
			return errors.NewValidationError(e.path, nil, "no recognized data type field")
		}
		var slots []slot
		for _, tag := range parameterOrderings[typ] {
			slots = append(slots, slot{tag: tag, required: true})
		}
		arrange(e.element, slots)
	case KindFormulaValue:
		arrange(e.element, formulaValueSlots(e.element))
		if lim := e.element.SelectElement(constants.ElementLimit); lim != nil {
			var slots []slot
			for _, tag := range constants.LimitFields {
				slots = append(slots, slot{tag: tag})
			}
			arrange(lim, slots)
		}
	}
	return nil
}

func formulaValueSlots(el *etree.Element) []slot {
	slots := []slot{
		{tag: constants.FieldName, required: true},
		{tag: constants.FieldDisplay, required: true},
	}
	if el.SelectElement(constants.FieldDefer) != nil {
		slots = append(slots, slot{tag: constants.FieldDefer, required: true})
	} else {
		slots = append(slots, slot{tag: constants.FieldValue, required: true})
	}

	typ := presentType(el)
	if typ != "" {
		slots = append(slots, slot{tag: typ, required: true})
	}
	slots = append(slots, slot{tag: constants.FieldEnumerationMember})
	if typ == constants.FieldInteger || typ == constants.FieldReal {
		slots = append(slots, slot{tag: constants.FieldEngineeringUnits})
	}
	return append(slots, slot{tag: constants.ElementLimit})
}

func presentType(el *etree.Element) string {
	for _, t := range typePriority {
		if el.SelectElement(t) != nil {
			return t
		}
	}
	return ""
}

// arrange rebuilds el's children: slot matches first, then the remaining
// elements. Comments and other non-whitespace tokens move with the element
// that follows them; tokens after the last element stay last. Indentation
// whitespace is dropped and regenerated when the document is written.
func arrange(el *etree.Element, slots []slot) {
	children := el.ChildElements()
	used := make(map[*etree.Element]bool, len(children))
	ordered := make([]*etree.Element, 0, len(children)+len(slots))

	for _, s := range slots {
		var found *etree.Element
		for _, c := range children {
			if !used[c] && c.Tag == s.tag {
				found = c
				break
			}
		}
		if found == nil {
			if !s.required {
				continue
			}
			found = etree.NewElement(s.tag)
			found.Space = el.Space
		}
		used[found] = true
		ordered = append(ordered, found)
	}
	for _, c := range children {
		if !used[c] {
			ordered = append(ordered, c)
		}
	}

	leading := make(map[*etree.Element][]etree.Token)
	var pending []etree.Token
	for _, t := range el.Child {
		switch tok := t.(type) {
		case *etree.Element:
			if len(pending) > 0 {
				leading[tok] = pending
				pending = nil
			}
		case *etree.CharData:
			if !tok.IsWhitespace() {
				pending = append(pending, tok)
			}
		default:
			pending = append(pending, t)
		}
	}

	for len(el.Child) > 0 {
		el.RemoveChildAt(len(el.Child) - 1)
	}
	for _, c := range ordered {
		for _, t := range leading[c] {
			el.AddChild(t)
		}
		el.AddChild(c)
	}
	for _, t := range pending {
		el.AddChild(t)
	}
}
