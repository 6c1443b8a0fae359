// Package errors defines the service error taxonomy and its mapping to HTTP
// status codes. Domain services return these errors; the HTTP boundary
// translates them into JSON error responses.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies the class of a service error.
type Code string

const (
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeConflict           Code = "CONFLICT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeInternal           Code = "INTERNAL_ERROR"
)

// ServiceError carries a taxonomy code, a caller-facing message and the HTTP
// status it translates to.
type ServiceError struct {
	Code       Code
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Validation reports missing or invalid input.
func Validation(message string) *ServiceError {
	return &ServiceError{Code: CodeValidation, Message: message, HTTPStatus: http.StatusBadRequest}
}

// Conflict reports a uniqueness or referential-integrity violation.
func Conflict(message string) *ServiceError {
	return &ServiceError{Code: CodeConflict, Message: message, HTTPStatus: http.StatusBadRequest}
}

// NotFound reports a missing record.
func NotFound(message string) *ServiceError {
	return &ServiceError{Code: CodeNotFound, Message: message, HTTPStatus: http.StatusNotFound}
}

// Unauthorized reports a missing or invalid session.
func Unauthorized(message string) *ServiceError {
	if message == "" {
		message = "Authentication required"
	}
	return &ServiceError{Code: CodeUnauthorized, Message: message, HTTPStatus: http.StatusUnauthorized}
}

// InvalidCredentials reports a failed login. The message is uniform so callers
// cannot distinguish an unknown user from a wrong password.
func InvalidCredentials() *ServiceError {
	return &ServiceError{Code: CodeInvalidCredentials, Message: "Invalid username or password", HTTPStatus: http.StatusUnauthorized}
}

// Internal wraps an unexpected store or driver failure.
func Internal(message string, err error) *ServiceError {
	if message == "" {
		message = "Internal server error"
	}
	return &ServiceError{Code: CodeInternal, Message: message, HTTPStatus: http.StatusInternalServerError, Err: err}
}

// GetServiceError extracts a ServiceError from an error chain, or nil.
func GetServiceError(err error) *ServiceError {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return nil
}
