package dbcascade

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for schema construction and checks.
var (
	// ErrInvalidSchema is returned when a model declaration is malformed.
	ErrInvalidSchema = errors.New("dbcascade: invalid schema")

	// ErrUnknownModel is returned when a name does not resolve to a registered model.
	ErrUnknownModel = errors.New("dbcascade: unknown model")

	// ErrChecksFailed is returned when system checks report serious diagnostics.
	ErrChecksFailed = errors.New("dbcascade: system checks failed")

	// ErrInvalidConfig is returned for a bad option or configuration value.
	ErrInvalidConfig = errors.New("dbcascade: invalid configuration")
)

// SchemaError represents a malformed model or field declaration.
type SchemaError struct {
	Model   string // Model name
	Field   string // Field name (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("dbcascade: schema error")
	if e.Model != "" {
		b.WriteString(" on model ")
		b.WriteString(e.Model)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
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

// Is reports whether the target matches ErrInvalidSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// NewSchemaError returns a new SchemaError.
func NewSchemaError(model, field, message string, cause error) *SchemaError {
	return &SchemaError{
		Model:   model,
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	var e *SchemaError
	return errors.As(err, &e)
}

// UnknownModelError is returned when a model references a name that is not registered.
type UnknownModelError struct {
	Name     string // The unresolved model name
	Referrer string // Model that holds the reference (optional)
}

// Error returns the error string.
func (e *UnknownModelError) Error() string {
	if e.Referrer != "" {
		return fmt.Sprintf("dbcascade: model %q referenced by %s is not registered", e.Name, e.Referrer)
	}
	return fmt.Sprintf("dbcascade: model %q is not registered", e.Name)
}

// Is reports whether the target matches ErrUnknownModel.
func (e *UnknownModelError) Is(err error) bool {
	return err == ErrUnknownModel
}

// NewUnknownModelError returns a new UnknownModelError.
func NewUnknownModelError(name, referrer string) *UnknownModelError {
	return &UnknownModelError{Name: name, Referrer: referrer}
}

// IsUnknownModel returns true if the error is an UnknownModelError.
func IsUnknownModel(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownModelError
	return errors.As(err, &e) || errors.Is(err, ErrUnknownModel)
}

// ConfigError represents an invalid option value.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("dbcascade: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("dbcascade: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError returns a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// CheckError reports that system checks found serious problems.
// Issues holds the rendered diagnostics in the order they were reported.
type CheckError struct {
	Issues []string
}

// Error returns the error string.
func (e *CheckError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "dbcascade: system check identified %d issue(s):", len(e.Issues))
	for _, issue := range e.Issues {
		sb.WriteString("\n")
		sb.WriteString(issue)
	}
	return sb.String()
}

// Is reports whether the target matches ErrChecksFailed.
func (e *CheckError) Is(err error) bool {
	return err == ErrChecksFailed
}

// IsCheckError returns true if the error is a CheckError.
func IsCheckError(err error) bool {
	if err == nil {
		return false
	}
	var e *CheckError
	return errors.As(err, &e)
}

// AggregateError represents multiple errors collected during an operation.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "dbcascade: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("dbcascade: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors so errors.Is and errors.As see each one.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}
