// Package gen compiles loaded plugin documents into the per-method source
// fragments (descriptor builders, envelope framing, parameter unpacking,
// result slots) that the output dialects splice into file skeletons.
package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidSchema indicates a method-schema fault.
	ErrInvalidSchema = errors.New("blizzgen: invalid schema")
	// ErrMissingConfig indicates a generator configuration error.
	ErrMissingConfig = errors.New("blizzgen: missing configuration")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("blizzgen: code generation failed")
	// ErrNotImplemented indicates a schema shape the generator knowingly
	// does not support yet.
	ErrNotImplemented = errors.New("blizzgen: not implemented")
)

// SchemaError reports a method-schema fault discovered at generation time,
// such as an unsupported leaf type. Path identifies the offending node.
type SchemaError struct {
	Method  string
	Path    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("blizzgen: schema error")
	if e.Method != "" {
		b.WriteString(" in method ")
		b.WriteString(e.Method)
	}
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(method, path, message string, cause error) *SchemaError {
	return &SchemaError{
		Method:  method,
		Path:    path,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError reports an invalid generator configuration.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("blizzgen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("blizzgen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// GenerationError reports a failure while rendering or writing output files.
type GenerationError struct {
	Phase   string // "render", "write", "manifest"
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("blizzgen: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// NotImplementedError reports a schema shape the pack compiler knowingly
// rejects, such as composite result kinds.
type NotImplementedError struct {
	Method  string
	Feature string
}

// Error implements the error interface.
func (e *NotImplementedError) Error() string {
	var b strings.Builder
	b.WriteString("blizzgen: ")
	b.WriteString(e.Feature)
	b.WriteString(" not implemented")
	if e.Method != "" {
		b.WriteString(" (method ")
		b.WriteString(e.Method)
		b.WriteString(")")
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for NotImplementedError.
func (e *NotImplementedError) Is(target error) bool {
	return target == ErrNotImplemented
}

// NewNotImplementedError creates a new NotImplementedError.
func NewNotImplementedError(method, feature string) *NotImplementedError {
	return &NotImplementedError{Method: method, Feature: feature}
}

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}

// IsNotImplementedError reports whether the error is a NotImplementedError.
func IsNotImplementedError(err error) bool {
	var niErr *NotImplementedError
	return errors.As(err, &niErr)
}
