package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is an error carrying the HTTP status and the message shown to the
// user. The wrapped error is for logs only.
type AppError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithCause returns a copy of e wrapping err.
func (e *AppError) WithCause(err error) *AppError {
	return &AppError{StatusCode: e.StatusCode, Message: e.Message, Err: err}
}

// Is matches AppErrors by status and message so sentinel values survive WithCause.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Message == t.Message
}

func NewBadRequestError(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Message: message}
}

func NewInternalError(message string) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Message: message}
}

func NewBadGatewayError(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadGateway, Message: message}
}

func NewTooManyRequestsError(message string) *AppError {
	return &AppError{StatusCode: http.StatusTooManyRequests, Message: message}
}

// AsAppError unwraps err into an *AppError, falling back to a generic 500.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("Internal server error").WithCause(err)
}
