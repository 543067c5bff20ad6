// internal/engine/errors.go
package engine

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the pipeline stage that failed
type ErrorCode string

const (
	ErrCodeResolution  ErrorCode = "RESOLUTION"
	ErrCodeFetch       ErrorCode = "FETCH"
	ErrCodeValidation  ErrorCode = "VALIDATION"
	ErrCodePersist     ErrorCode = "PERSIST"
	ErrCodeUnsupported ErrorCode = "UNSUPPORTED"
)

// Sentinel errors usable with errors.Is against any EngineError of that stage
var (
	ErrResolution  = &EngineError{Code: ErrCodeResolution}
	ErrFetch       = &EngineError{Code: ErrCodeFetch}
	ErrValidation  = &EngineError{Code: ErrCodeValidation}
	ErrPersist     = &EngineError{Code: ErrCodePersist}
	ErrUnsupported = &EngineError{Code: ErrCodeUnsupported}
)

// EngineError wraps errors with additional context
type EngineError struct {
	Code       ErrorCode
	Message    string
	Underlying error
	Details    map[string]interface{}
}

// Error implements the error interface
func (e *EngineError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// Is checks if the error matches the target
func (e *EngineError) Is(target error) bool {
	if t, ok := target.(*EngineError); ok {
		return e.Code == t.Code
	}
	return errors.Is(e.Underlying, target)
}

// NewEngineError creates a new EngineError
func NewEngineError(code ErrorCode, message string, err error) *EngineError {
	return &EngineError{
		Code:       code,
		Message:    message,
		Underlying: err,
		Details:    make(map[string]interface{}),
	}
}

// WithDetail adds a detail to the error
func (e *EngineError) WithDetail(key string, value interface{}) *EngineError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Stage returns the lower-case stage name used in diagnostics
func (e *EngineError) Stage() string {
	switch e.Code {
	case ErrCodeResolution:
		return "resolve"
	case ErrCodeFetch:
		return "fetch"
	case ErrCodeValidation:
		return "validate"
	case ErrCodePersist:
		return "persist"
	default:
		return "dispatch"
	}
}

// CodeOf returns the ErrorCode of the first EngineError in err's chain
func CodeOf(err error) (ErrorCode, bool) {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code, true
	}
	return "", false
}
