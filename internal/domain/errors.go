package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	CodeInternal        ErrorCode = "INTERNAL_ERROR"
	CodeValidation      ErrorCode = "VALIDATION_ERROR"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeAllModelsFailed ErrorCode = "ALL_MODELS_FAILED"
	CodeParse           ErrorCode = "PARSE_ERROR"
	CodeGeneration      ErrorCode = "GENERATION_ERROR"
	CodeCancelled       ErrorCode = "CANCELLED"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"-"`

	// diagnostic keeps data for logs only, such as the raw upstream text.
	diagnostic string
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

// Is matches any DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return t.Code == e.Code
	}
	return false
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithContext attaches a detail that is returned to API clients.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidation      = &DomainError{Code: CodeValidation}
	ErrNotFound        = &DomainError{Code: CodeNotFound}
	ErrAllModelsFailed = &DomainError{Code: CodeAllModelsFailed}
	ErrParse           = &DomainError{Code: CodeParse}
	ErrGeneration      = &DomainError{Code: CodeGeneration}
	ErrCancelled       = &DomainError{Code: CodeCancelled}
)

func NewValidationError(message string) *DomainError {
	return NewError(CodeValidation, message, nil)
}

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

// NewAllModelsFailedError keeps the last upstream message verbatim so users can tell a bad
// credential from an unavailable model.
func NewAllModelsFailedError(attempts int, last error) *DomainError {
	msg := "all models failed"
	if last != nil {
		msg = fmt.Sprintf("all %d models failed, last error: %s", attempts, last.Error())
	}
	return NewError(CodeAllModelsFailed, msg, last).WithContext("attempts", attempts)
}

// NewParseError carries the raw upstream text for diagnostics only.
func NewParseError(raw string, cause error) *DomainError {
	e := NewError(CodeParse, "invalid response format", cause)
	e.diagnostic = raw
	return e
}

func NewGenerationError(message string) *DomainError {
	return NewError(CodeGeneration, message, nil)
}

func NewCancelledError(cause error) *DomainError {
	return NewError(CodeCancelled, "generation request cancelled", cause)
}

// IsCancelled reports whether err stems from a superseded or abandoned request.
func IsCancelled(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

// RawResponse extracts the raw upstream text kept by a parse error.
func RawResponse(err error) (string, bool) {
	var de *DomainError
	if errors.As(err, &de) && de.Code == CodeParse {
		return de.diagnostic, true
	}
	return "", false
}

// UserMessage is the text shown to the user for a failed request.
func UserMessage(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return "generation failed: " + err.Error()
}
