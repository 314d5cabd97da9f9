package utils

import (
	"errors"
	"net/http"
)

const (
	ErrCodeInvalidPayload    = "invalid_payload"
	ErrCodeValidation        = "validation_error"
	ErrCodeUnauthorized      = "unauthorized"
	ErrCodeForbidden         = "forbidden"
	ErrCodeInvalidCredential = "invalid_credentials"
	ErrCodeNotFound          = "not_found"
	ErrCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrCodeInvalidPayment    = "invalid_payment"
	ErrCodeExternalService   = "external_service_failure"
	ErrCodeInternal          = "internal_server_error"
)

var (
	ErrNotFound       = errors.New("not_found")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidPayment = errors.New("invalid_payment")
)

// AppError carries a client-facing status, code and message from the
// service layer to the handlers. Err is logged, never returned to clients.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewNotFound(message string, err error) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Code: ErrCodeNotFound, Message: message, Err: err}
}

func NewForbidden(message string) *AppError {
	return &AppError{StatusCode: http.StatusForbidden, Code: ErrCodeForbidden, Message: message, Err: ErrForbidden}
}

func NewValidation(message string, err error) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Code: ErrCodeValidation, Message: message, Err: err}
}

func NewInternal(message string, err error) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Code: ErrCodeInternal, Message: message, Err: err}
}
