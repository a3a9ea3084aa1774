package errors

import (
	"fmt"
)

// ErrorType classifies an AppError by the stage that produced it
type ErrorType string

const (
	ErrTypeInput     ErrorType = "INPUT"
	ErrTypeTransform ErrorType = "TRANSFORM"
	ErrTypeOutput    ErrorType = "OUTPUT"
	ErrTypeConfig    ErrorType = "CONFIG"
	ErrTypeSchedule  ErrorType = "SCHEDULE"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to see the cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewInputError wraps a failure to read the source sheet
func NewInputError(source string, cause error) *AppError {
	return NewAppError(ErrTypeInput, "read input", cause).WithContext("source", source)
}

// NewTransformError wraps a failure of the record transformer
func NewTransformError(source string, cause error) *AppError {
	return NewAppError(ErrTypeTransform, "transform records", cause).WithContext("source", source)
}

// NewOutputError wraps a failure to write the processed sheet
func NewOutputError(target string, cause error) *AppError {
	return NewAppError(ErrTypeOutput, "write output", cause).WithContext("target", target)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewScheduleError wraps a failed scheduled batch
func NewScheduleError(message string, cause error) *AppError {
	return NewAppError(ErrTypeSchedule, message, cause)
}
