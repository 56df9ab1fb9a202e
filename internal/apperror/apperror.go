// Package apperror defines the closed set of application error kinds shared
// by the API and its clients. Every kind carries a stable machine-readable
// code and maps to exactly one HTTP status.
package apperror

import (
	"errors"
	"net/http"
)

// Code identifies an application error kind.
type Code string

const (
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeForbidden          Code = "FORBIDDEN"
	CodeNotFound           Code = "NOT_FOUND"
	CodeConflict           Code = "CONFLICT"
	CodeFileTooLarge       Code = "FILE_TOO_LARGE"
	CodeTooManyFiles       Code = "TOO_MANY_FILES"
	CodeFileUploadError    Code = "FILE_UPLOAD_ERROR"
	CodeRequestTimeout     Code = "REQUEST_TIMEOUT"
	CodeNetworkError       Code = "NETWORK_ERROR"
	CodeInternal           Code = "INTERNAL_ERROR"
)

// internalMessage is the only text an unclassified failure may surface.
const internalMessage = "An unexpected error occurred"

// Error is a taxonomy error. Details is present only for the
// validation family and maps field paths to human-readable messages.
type Error struct {
	Code    Code                `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// HTTPStatus maps an error code to its fixed HTTP status.
// CodeNetworkError is client-only and has no server status; it maps to 0.
func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeTooManyFiles, CodeFileUploadError:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case CodeRequestTimeout:
		return http.StatusRequestTimeout
	case CodeNetworkError:
		return 0
	default:
		return http.StatusInternalServerError
	}
}

// Status returns the HTTP status for this error.
func (e *Error) Status() int {
	return HTTPStatus(e.Code)
}

func Validation(message string, details map[string][]string) *Error {
	return &Error{Code: CodeValidation, Message: message, Details: details}
}

func Unauthorized(message string) *Error {
	if message == "" {
		message = "Unauthorized"
	}
	return &Error{Code: CodeUnauthorized, Message: message}
}

func InvalidCredentials() *Error {
	return &Error{Code: CodeInvalidCredentials, Message: "Invalid email or password"}
}

func Forbidden(message string) *Error {
	if message == "" {
		message = "Forbidden"
	}
	return &Error{Code: CodeForbidden, Message: message}
}

func NotFound(message string) *Error {
	if message == "" {
		message = "Resource not found"
	}
	return &Error{Code: CodeNotFound, Message: message}
}

func Conflict(message string) *Error {
	if message == "" {
		message = "Resource already exists"
	}
	return &Error{Code: CodeConflict, Message: message}
}

func Internal() *Error {
	return &Error{Code: CodeInternal, Message: internalMessage}
}

// From extracts a taxonomy error from err, or wraps it as INTERNAL_ERROR.
// The original error text never reaches the result for unclassified
// failures; callers log it separately.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal()
}
