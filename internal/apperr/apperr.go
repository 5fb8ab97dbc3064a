// Package apperr defines the error type backend handlers return. Each error
// carries the HTTP status and a stable code for the response body.
package apperr

import (
	"fmt"
	"net/http"
)

// Code is a stable machine-readable error code.
type Code string

const (
	CodeInternal           Code = "INTERNAL"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeInvalidPayload     Code = "INVALID_PAYLOAD"
	CodeNotFound           Code = "NOT_FOUND"
	CodePayloadTooLarge    Code = "PAYLOAD_TOO_LARGE"
	CodeSummaryFailed      Code = "SUMMARY_FAILED"
	CodeEmailNotConfigured Code = "EMAIL_NOT_CONFIGURED"
	CodeEmailAuthFailed    Code = "EMAIL_AUTH_FAILED"
	CodeEmailFailed        Code = "EMAIL_FAILED"
)

// AppError is an error with an HTTP mapping.
type AppError struct {
	Raw      error
	HTTPCode int
	Code     Code
	Message  string
}

// Error implements error.
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e AppError) Unwrap() error { return e.Raw }

// Detail is the human-readable text sent to clients.
func (e AppError) Detail() string {
	if e.Raw != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Raw)
	}
	return e.Message
}

func Internal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     CodeInternal,
		Message:  "Internal server error",
	}
}

func InvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     CodeInvalidArgument,
		Message:  message,
	}
}

func InvalidPayload(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadRequest,
		Code:     CodeInvalidPayload,
		Message:  "Invalid payload",
	}
}

func NotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     CodeNotFound,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

func PayloadTooLarge() AppError {
	return AppError{
		HTTPCode: http.StatusRequestEntityTooLarge,
		Code:     CodePayloadTooLarge,
		Message:  "Upload too large",
	}
}

// ReadFileFailed reports an upload that could not be read as text.
func ReadFileFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadRequest,
		Code:     CodeInvalidArgument,
		Message:  "Error reading file",
	}
}

func SummaryFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     CodeSummaryFailed,
		Message:  "Error generating summary",
	}
}

func EmailNotConfigured() AppError {
	return AppError{
		HTTPCode: http.StatusInternalServerError,
		Code:     CodeEmailNotConfigured,
		Message:  "Email credentials not configured",
	}
}

// EmailAuthFailed reports that the SMTP relay rejected the credentials.
func EmailAuthFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     CodeEmailAuthFailed,
		Message:  "Email authentication failed. Please check your app password",
	}
}

func EmailFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     CodeEmailFailed,
		Message:  "Error sending email",
	}
}
