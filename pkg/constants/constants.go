// Package constants provides shared constants used throughout the bulk editor.
// This includes file permissions, output layout, recipe vocabulary and the
// fixed workbook columns that should be consistent across the application.
package constants

import "time"

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Output layout constants
const (
	// OutputDirName is the folder created next to the source recipe for converted files
	OutputDirName = "converted-outputs"

	// OutputTimestampLayout names the per-run subfolder (YYYY-MM-DD-HHMM)
	OutputTimestampLayout = "2006-01-02-1504"

	// XMLIndent is the number of spaces used when writing recipe files
	XMLIndent = 2

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute

	// DefaultHistoryLimit is the number of runs listed by the history command
	DefaultHistoryLimit = 20
)

// Recipe file extensions. A parent procedure references unit procedures,
// which in turn reference operations.
const (
	ExtProcedure     = ".pxml"
	ExtUnitProcedure = ".uxml"
	ExtOperation     = ".oxml"
)

// RecipeNamespace is the default namespace of master recipe documents.
const RecipeNamespace = "urn:Rockwell/MasterRecipe"

// Recipe element names
const (
	ElementRecipeID     = "RecipeElementID"
	ElementParameter    = "Parameter"
	ElementFormulaValue = "FormulaValue"
	ElementSteps        = "Steps"
	ElementStep         = "Step"
	ElementStepRecipeID = "StepRecipeID"
	ElementLimit        = "FormulaValueLimit"
	AttrLimitVerify     = "Verification"
	DefaultStepName     = "UnknownStep"
	LimitColumnPrefix   = "FormulaValueLimit_"
	TagTypeParameter    = ElementParameter
	TagTypeFormulaValue = ElementFormulaValue
)

// Field names shared by rows and recipe elements
const (
	FieldTagType           = "TagType"
	FieldName              = "Name"
	FieldFullPath          = "FullPath"
	FieldReal              = "Real"
	FieldInteger           = "Integer"
	FieldHigh              = "High"
	FieldLow               = "Low"
	FieldString            = "String"
	FieldEnumerationSet    = "EnumerationSet"
	FieldEnumerationMember = "EnumerationMember"
	FieldDefer             = "Defer"
	FieldValue             = "Value"
	FieldDisplay           = "Display"
	FieldERPAlias          = "ERPAlias"
	FieldPLCReference      = "PLCReference"
	FieldEngineeringUnits  = "EngineeringUnits"
	FieldScale             = "Scale"
)

// LimitFields are the ordered numeric sub-fields of a FormulaValueLimit block.
var LimitFields = []string{
	"LowLowLowValue",
	"LowLowValue",
	"LowValue",
	"HighValue",
	"HighHighValue",
	"HighHighHighValue",
}

// DataTypeFields are the mutually exclusive data-type fields.
var DataTypeFields = []string{FieldReal, FieldInteger, FieldString, FieldEnumerationSet}

// Columns is the fixed leading header of every exported sheet.
// Extra fields follow in sorted order.
var Columns = []string{
	FieldTagType,
	FieldName,
	FieldFullPath,
	FieldReal,
	FieldInteger,
	FieldHigh,
	FieldLow,
	FieldString,
	FieldEnumerationSet,
	FieldEnumerationMember,
	FieldDefer,
	LimitColumnPrefix + AttrLimitVerify,
	LimitColumnPrefix + "LowLowLowValue",
	LimitColumnPrefix + "LowLowValue",
	LimitColumnPrefix + "LowValue",
	LimitColumnPrefix + "HighValue",
	LimitColumnPrefix + "HighHighValue",
	LimitColumnPrefix + "HighHighHighValue",
}
