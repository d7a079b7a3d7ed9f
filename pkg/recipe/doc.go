// Package recipe models FactoryTalk Batch master recipe files as editable
// entities.
//
// A Document wraps the parsed element tree of one .pxml, .uxml or .oxml
// file. Extract indexes its Parameters (direct children of the root) and
// FormulaValues (under Steps/Step, including nested steps) by a stable path:
//
//	<RecipeElementID>/Parameter[<Name>]
//	<RecipeElementID>/Steps/Step[<Step>]/Steps/Step[<SubStep>]/FormulaValue[<Name>]
//
// Each Entity keeps a snapshot of its fields as extracted. ToRow projects
// that snapshot onto a flat Row; Apply writes a Row back onto the live node
// following blank-preserving rules and then restores the canonical child
// order FactoryTalk Batch expects.
package recipe
