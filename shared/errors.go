package shared

import (
	"errors"
	"fmt"
)

// Error types surfaced to API clients. NotFound and validation failures are
// terminal for the request; store failures are propagated as-is and the UI
// layer decides whether to offer a retry.
const (
	ErrTypeNotFound   = "NOT_FOUND"
	ErrTypeValidation = "VALIDATION_FAILURE"
	ErrTypeStore      = "STORE_FAILURE"
	ErrTypeBadRequest = "BAD_REQUEST"
	ErrTypeConflict   = "CONFLICT"
	ErrTypeInternal   = "INTERNAL_ERROR"
)

type AppError struct {
	StatusCode int         `json:"-"`
	Type       string      `json:"type"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Err        error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsNotFound(err error) bool {
	appErr, ok := GetAppError(err)
	return ok && appErr.Type == ErrTypeNotFound
}

func NewNotFoundError(err error, message string) *AppError {
	return &AppError{StatusCode: 404, Type: ErrTypeNotFound, Message: message, Err: err}
}

func NewValidationError(err error, message string) *AppError {
	return &AppError{StatusCode: 422, Type: ErrTypeValidation, Message: message, Err: err}
}

func NewStoreError(err error, message string) *AppError {
	return &AppError{StatusCode: 502, Type: ErrTypeStore, Message: message, Err: err}
}

func NewBadRequestError(err error, message string) *AppError {
	return &AppError{StatusCode: 400, Type: ErrTypeBadRequest, Message: message, Err: err}
}

func NewConflictError(err error, message string) *AppError {
	return &AppError{StatusCode: 409, Type: ErrTypeConflict, Message: message, Err: err}
}

func NewInternalError(err error, message string) *AppError {
	return &AppError{StatusCode: 500, Type: ErrTypeInternal, Message: message, Err: err}
}
