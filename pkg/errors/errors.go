package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors by code so cloned errors still compare equal to their template.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid username or password")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrTooManyRequests    = New("TOO_MANY_REQUESTS", http.StatusTooManyRequests, "too many requests, try again later")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// Portal workflow errors.
var (
	ErrDuplicateUsername      = New("DUPLICATE_USERNAME", http.StatusConflict, "username already exists")
	ErrDuplicateEmail         = New("DUPLICATE_EMAIL", http.StatusConflict, "email already registered")
	ErrUnderageApplicant      = New("UNDERAGE_APPLICANT", http.StatusBadRequest, "you must be at least 18 years old to apply for a license")
	ErrTestDateOutOfWindow    = New("TEST_DATE_OUT_OF_WINDOW", http.StatusBadRequest, "test date must be between 7 and 60 days from today")
	ErrUnknownLearningLicense = New("UNKNOWN_LEARNING_LICENSE", http.StatusNotFound, "invalid learning license ID or license does not belong to you")
	ErrUnknownLicense         = New("UNKNOWN_LICENSE", http.StatusNotFound, "invalid license number or license does not belong to you")
	ErrApplicationNotFound    = New("APPLICATION_NOT_FOUND", http.StatusNotFound, "application not found or does not belong to you")
	ErrUnknownLicenseType     = New("UNKNOWN_LICENSE_TYPE", http.StatusNotFound, "unknown license type")
	ErrMissingStagedData      = New("MISSING_STAGED_DATA", http.StatusConflict, "invalid request")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
