package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeDetection      ErrorType = "DETECTION"
	ErrTypeClassification ErrorType = "CLASSIFICATION"
	ErrTypeParsing        ErrorType = "PARSING"
	ErrTypeStorage        ErrorType = "STORAGE"
	ErrTypeValidation     ErrorType = "VALIDATION"
	ErrTypeJoin           ErrorType = "JOIN"
	ErrTypeConfig         ErrorType = "CONFIG"
)

// Sentinel errors for the detection and classification contracts. Callers
// match these with errors.Is.
var (
	// ErrInvalidMethod is returned when the detection method is neither
	// "zscore" nor "iqr". Fatal, surfaced before any processing.
	ErrInvalidMethod = errors.New("invalid detection method")

	// ErrEmptyInput is returned when the detector receives zero values.
	ErrEmptyInput = errors.New("empty input")

	// ErrMissingReferenceStats marks a product with no usable baseline.
	// Recovered locally by the legitimate-by-default policy, never fatal.
	ErrMissingReferenceStats = errors.New("missing reference stats")

	// ErrUnjoinableProduct marks a transaction-only product with no stock
	// row. Recovered by exclusion from the final table, logged as a warning.
	ErrUnjoinableProduct = errors.New("product has no stock record")
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

// Unwrap allows errors.Is and errors.As to work with AppError
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

// Helper functions for common error types

// NewDetectionError creates an outlier-detection error
func NewDetectionError(message string, cause error) *AppError {
	return NewAppError(ErrTypeDetection, message, cause)
}

// NewClassificationError creates a classification error
func NewClassificationError(message string, cause error) *AppError {
	return NewAppError(ErrTypeClassification, message, cause)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewJoinError creates a feature/label join error
func NewJoinError(message string, cause error) *AppError {
	return NewAppError(ErrTypeJoin, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
