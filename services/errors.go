package services

import (
	"errors"
	"net/http"
)

// APIError is an error that knows how it is reported to a caller.
type APIError interface {
	error
	StatusCode() int
	Code() string
	Message() string
}

type apiError struct {
	code    string
	message string
	cause   error
}

func (e apiError) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

func (e apiError) Code() string    { return e.code }
func (e apiError) Message() string { return e.message }
func (e apiError) Unwrap() error   { return e.cause }

// ValidationError reports malformed or missing input. Raised before any
// storage or completion call.
type ValidationError struct{ apiError }

func (ValidationError) StatusCode() int { return http.StatusBadRequest }

type NotFoundError struct{ apiError }

func (NotFoundError) StatusCode() int { return http.StatusNotFound }

type UpstreamAuthError struct{ apiError }

func (UpstreamAuthError) StatusCode() int { return http.StatusUnauthorized }

type UpstreamQuotaError struct{ apiError }

func (UpstreamQuotaError) StatusCode() int { return http.StatusTooManyRequests }

type StorageError struct{ apiError }

func (StorageError) StatusCode() int { return http.StatusInternalServerError }

type UpstreamError struct{ apiError }

func (UpstreamError) StatusCode() int { return http.StatusInternalServerError }

func NewValidationError(code, message string) *ValidationError {
	return &ValidationError{apiError{code: code, message: message}}
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{apiError{code: "not_found", message: message}}
}

func NewUpstreamAuthError(cause error) *UpstreamAuthError {
	return &UpstreamAuthError{apiError{code: "invalid_api_key", message: "Completion service credentials are invalid", cause: cause}}
}

func NewUpstreamQuotaError(cause error) *UpstreamQuotaError {
	return &UpstreamQuotaError{apiError{code: "quota_exceeded", message: "Completion service quota reached, please try again later", cause: cause}}
}

// NewStorageError wraps an unexpected database failure; message is what the
// caller sees.
func NewStorageError(message string, cause error) *StorageError {
	return &StorageError{apiError{code: "server_error", message: message, cause: cause}}
}

func NewUpstreamError(code, message string, cause error) *UpstreamError {
	return &UpstreamError{apiError{code: code, message: message, cause: cause}}
}

// DescribeError maps err to a status, error code and message. With detailed
// set, the underlying cause is included in the message.
func DescribeError(err error, detailed bool) (int, string, string) {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		message := apiErr.Message()
		if detailed {
			message = apiErr.Error()
		}
		return apiErr.StatusCode(), apiErr.Code(), message
	}
	if detailed && err != nil {
		return http.StatusInternalServerError, "server_error", err.Error()
	}
	return http.StatusInternalServerError, "server_error", "An unexpected error occurred"
}
