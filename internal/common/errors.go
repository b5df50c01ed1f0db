package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Extraction and persistence taxonomy. The lifecycle manager catches all of
// these at the per-file boundary; none aborts the remaining batch.
var (
	// ErrVendorUnrecognized: no registered grammar matched the document.
	ErrVendorUnrecognized = errors.New("vendor unrecognized")
	// ErrFieldMissing: a mandatory field was absent after extraction.
	ErrFieldMissing = errors.New("mandatory field missing")
	// ErrMalformedNumber: a recognized mandatory numeric field failed to parse.
	ErrMalformedNumber = errors.New("malformed number")
	// ErrMalformedDate: a recognized date failed to parse or normalize.
	ErrMalformedDate = errors.New("malformed date")
	// ErrStorageFailure: the persistence transaction failed.
	ErrStorageFailure = errors.New("storage failure")

	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrValidation   = errors.New("validation failed")
)

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// FieldMissingError reports which mandatory field was absent.
func FieldMissingError(field string) error {
	return fmt.Errorf("field %q: %w", field, ErrFieldMissing)
}

// MalformedNumberError reports a mandatory numeric field that failed to parse.
func MalformedNumberError(field, raw string) error {
	return fmt.Errorf("field %q value %q: %w", field, raw, ErrMalformedNumber)
}

// MalformedDateError reports a date value that failed to normalize.
func MalformedDateError(field, raw string) error {
	return fmt.Errorf("field %q value %q: %w", field, raw, ErrMalformedDate)
}
