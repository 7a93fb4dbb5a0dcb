package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Tutor errors
	CodeLLMServiceError ErrorCode = "LLM_SERVICE_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches on code so errors.Is(err, &DomainError{Code: CodeConflict}) works.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Context: e.Context,
	})
}

// WithContext attaches a key/value pair that the error handler exposes as details.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewNotFoundError names the missing entity and its id.
func NewNotFoundError(entity, id string) *DomainError {
	return NewError(CodeNotFound, fmt.Sprintf("%s not found with ID: %s", entity, id), nil).
		WithContext("entity", entity).
		WithContext("id", id)
}

func NewConflictError(message string, cause error) *DomainError {
	return NewError(CodeConflict, message, cause)
}

func NewForbiddenError(message string) *DomainError {
	return NewError(CodeForbidden, message, nil)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewLLMServiceError(cause error) *DomainError {
	return NewError(CodeLLMServiceError, "Failed to process with LLM service", cause)
}

// ErrorCodeOf returns the code carried by err, or CodeInternal.
func ErrorCodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return CodeValidation
	}
	return CodeInternal
}

// IsNotFound reports whether err carries CodeNotFound.
func IsNotFound(err error) bool {
	return ErrorCodeOf(err) == CodeNotFound
}

// IsConflict reports whether err carries CodeConflict.
func IsConflict(err error) bool {
	return ErrorCodeOf(err) == CodeConflict
}

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string      `json:"field"`
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every invalid field of a request.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, ve := range e {
		msgs = append(msgs, ve.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Add appends a field error.
func (e *ValidationErrors) Add(field string, code ErrorCode, message string, value interface{}) {
	*e = append(*e, ValidationError{Field: field, Code: code, Message: message, Value: value})
}

// OrNil returns nil when nothing was collected.
func (e ValidationErrors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Code: CodeMissingField, Message: fmt.Sprintf("%s is required", field)}
}

func NewInvalidFormatError(field string, value interface{}) ValidationError {
	return ValidationError{Field: field, Code: CodeInvalidFormat, Message: fmt.Sprintf("%s has an invalid format", field), Value: value}
}

func NewOutOfRangeError(field string, value interface{}, min, max int) ValidationError {
	msg := fmt.Sprintf("%s must be between %d and %d", field, min, max)
	if max < 0 {
		msg = fmt.Sprintf("%s must be at least %d", field, min)
	}
	return ValidationError{Field: field, Code: CodeOutOfRange, Message: msg, Value: value}
}
