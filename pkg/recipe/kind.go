package recipe

import (
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/constants"
	"github.com/marcelo-6/ftbatch-recipe-bulk-edit/pkg/errors"
)

// Kind tells Parameters and FormulaValues apart.
type Kind int

const (
	// KindParameter is a recipe-level input exposed to operators.
	KindParameter Kind = iota
	// KindFormulaValue is a per-step setpoint that may defer to a Parameter.
	KindFormulaValue
)

// Kinds lists every entity kind in extraction order.
var Kinds = []Kind{KindParameter, KindFormulaValue}

// String returns the element tag, which is also the TagType cell value.
func (k Kind) String() string {
	switch k {
	case KindParameter:
		return constants.ElementParameter
	case KindFormulaValue:
		return constants.ElementFormulaValue
	default:
		return "Unknown"
	}
}

// ParseKind maps a TagType cell to a Kind.
func ParseKind(tagType string) (Kind, error) {
	switch tagType {
	case constants.TagTypeParameter:
		return KindParameter, nil
	case constants.TagTypeFormulaValue:
		return KindFormulaValue, nil
	default:
		return 0, errors.NewValidationError(constants.FieldTagType, tagType, "unknown TagType '"+tagType+"'")
	}
}

// projected lists the data fields each kind places right after FullPath.
// Defer, Value and limit columns are handled per kind.
var projected = map[Kind][]string{
	KindParameter: {
		constants.FieldReal,
		constants.FieldInteger,
		constants.FieldHigh,
		constants.FieldLow,
		constants.FieldString,
		constants.FieldEnumerationSet,
		constants.FieldEnumerationMember,
	},
	KindFormulaValue: {
		constants.FieldReal,
		constants.FieldInteger,
		constants.FieldString,
		constants.FieldEnumerationSet,
		constants.FieldEnumerationMember,
	},
}
