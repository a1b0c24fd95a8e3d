package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingRequiredField marks a validation failure caused by an omitted
// required input.
var ErrMissingRequiredField = errors.New("missing required field")

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
	Err     error
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes the causes so errors.Is(err, ErrMissingRequiredField) works.
func (e *ValidationError) Unwrap() []error {
	var errs []error
	for _, fe := range e.Errors {
		if fe.Err != nil {
			errs = append(errs, fe.Err)
		}
	}
	return errs
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// require flags an empty value. Whitespace counts as a value.
func (e *ValidationError) require(field, value string) {
	if value == "" {
		e.Errors = append(e.Errors, FieldError{Field: field, Message: "is required", Err: ErrMissingRequiredField})
	}
}

// Invalid builds a single-field validation error that is not a missing-field
// failure.
func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: fmt.Sprintf(format, args...)}}}
}

// ValidateAppConfig checks that the credentials needed for API calls are set.
func ValidateAppConfig(c AppConfig) error {
	var ve ValidationError
	ve.require("geminiFlowId", c.GeminiFlowID)
	ve.require("apiKey", c.APIKey)
	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateScheduleDraft checks the required schedule inputs.
func ValidateScheduleDraft(d ScheduleDraft) error {
	var ve ValidationError
	ve.require("videoRef", d.VideoRef)
	ve.require("date", d.Date)
	ve.require("time", d.Time)
	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateProductDraft checks the product text required for generation.
// When forGeneration is false only the name is required.
func ValidateProductDraft(d ProductDraft, forGeneration bool) error {
	var ve ValidationError
	ve.require("name", d.Name)
	if forGeneration {
		ve.require("description", d.Description)
		ve.require("price", d.Price)
	}
	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// NotFoundError reports that an operation referenced a record that does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// StoreError reports that the durable store rejected a write. The in-memory
// change that preceded it is kept for the rest of the session.
type StoreError struct {
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("persist %q: %v", e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Warning returns the user-facing message for a non-fatal persistence failure.
func (e *StoreError) Warning() string {
	return "changes were not saved and will only last for this session: " + e.Err.Error()
}
