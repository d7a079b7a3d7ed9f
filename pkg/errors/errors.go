// Package errors provides custom error types for the recipe bulk editor.
// These errors enable programmatic error checking with errors.Is and
// errors.As, and carry enough context (paths, sheets, line numbers) to
// report problems back to the person editing the workbook.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the bulk editor.
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrTypeConflict indicates more than one data-type field was populated
	ErrTypeConflict = errors.New("type conflict")

	// ErrDeferResolution indicates a Defer target names no known Parameter
	ErrDeferResolution = errors.New("unresolved defer target")

	// ErrStructure indicates the recipe tree lacks a required structural element
	ErrStructure = errors.New("structure error")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// TypeConflictError is raised when a row populates more than one data-type field.
type TypeConflictError struct {
	Path   string
	Fields []string
}

// Error implements the error interface
func (e *TypeConflictError) Error() string {
	return fmt.Sprintf("%s: multiple data types set (%s)", e.Path, strings.Join(e.Fields, ", "))
}

// Is implements errors.Is support
func (e *TypeConflictError) Is(target error) bool {
	return target == ErrTypeConflict || target == ErrInvalidInput
}

// NewTypeConflictError creates a new TypeConflictError
func NewTypeConflictError(path string, fields []string) *TypeConflictError {
	return &TypeConflictError{Path: path, Fields: fields}
}

// DeferResolutionError is raised when a FormulaValue defers to a Parameter
// that is not part of the same edited batch.
type DeferResolutionError struct {
	Path   string
	Target string
}

// Error implements the error interface
func (e *DeferResolutionError) Error() string {
	return fmt.Sprintf("%s: Defer=%q not a Parameter", e.Path, e.Target)
}

// Is implements errors.Is support
func (e *DeferResolutionError) Is(target error) bool {
	return target == ErrDeferResolution || target == ErrInvalidInput
}

// NewDeferResolutionError creates a new DeferResolutionError
func NewDeferResolutionError(path, target string) *DeferResolutionError {
	return &DeferResolutionError{Path: path, Target: target}
}

// StructureError is raised when an operation needs a structural element
// (a Step, the recipe root) that the tree does not contain.
type StructureError struct {
	Path    string
	Step    string
	Message string
}

// Error implements the error interface
func (e *StructureError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("%s: step %q not found", e.Path, e.Step)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Is implements errors.Is support
func (e *StructureError) Is(target error) bool {
	return target == ErrStructure
}

// NewStructureError creates a new StructureError for a missing step
func NewStructureError(path, step string) *StructureError {
	return &StructureError{Path: path, Step: step}
}

// RowError attaches a sheet and line number to a row-level failure.
type RowError struct {
	Sheet string
	Line  int
	Path  string
	Err   error
}

// Error implements the error interface
func (e *RowError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s!Row%d: %v", e.Sheet, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Sheet, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *RowError) Unwrap() error {
	return e.Err
}

// ImportError aggregates every row error found while validating a workbook.
type ImportError struct {
	Errors []*RowError
}

// Error implements the error interface
func (e *ImportError) Error() string {
	if len(e.Errors) == 1 {
		return "1 error"
	}
	return fmt.Sprintf("%d errors", len(e.Errors))
}

// Unwrap exposes the row errors to errors.Is and errors.As.
func (e *ImportError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, re := range e.Errors {
		errs[i] = re
	}
	return errs
}

// Is implements errors.Is support
func (e *ImportError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Details renders one line per row error.
func (e *ImportError) Details() string {
	var b strings.Builder
	for _, re := range e.Errors {
		b.WriteString(re.Error())
		b.WriteByte('\n')
	}
	return b.String()
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "xml", "xlsx", "yaml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "open"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "open", "record", "list"
	Resource  string // "history", "workbook"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsTypeConflict checks if an error is a type conflict
func IsTypeConflict(err error) bool {
	return errors.Is(err, ErrTypeConflict)
}

// IsDeferResolution checks if an error is an unresolved Defer target
func IsDeferResolution(err error) bool {
	return errors.Is(err, ErrDeferResolution)
}

// IsStructure checks if an error is a structure error
func IsStructure(err error) bool {
	return errors.Is(err, ErrStructure)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// As is an alias for the standard library errors.As.
var As = errors.As

// Is is an alias for the standard library errors.Is.
var Is = errors.Is

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
