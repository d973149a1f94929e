package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternal       = errors.New("internal error")
	ErrServiceUnavail = errors.New("service unavailable")
	ErrPersistence    = errors.New("persistence failure")
	ErrCorruptData    = errors.New("corrupt stored data")
)

// kind describes how one sentinel is presented to API clients.
type kind struct {
	sentinel error
	code     string
	status   int
	message  string
}

// kinds is checked in order by FromError.
var kinds = []kind{
	{ErrNotFound, "NOT_FOUND", http.StatusNotFound, "resource not found"},
	{ErrInvalidInput, "INVALID_INPUT", http.StatusBadRequest, ""},
	{ErrUnauthorized, "UNAUTHORIZED", http.StatusUnauthorized, "authentication required"},
	{ErrForbidden, "FORBIDDEN", http.StatusForbidden, "insufficient permissions"},
	{ErrPersistence, "PERSISTENCE_ERROR", http.StatusServiceUnavailable, "failed to save feedback, please try again"},
	{ErrCorruptData, "CORRUPT_DATA", http.StatusInternalServerError, "stored feedback data is unreadable"},
	{ErrServiceUnavail, "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable, "service temporarily unavailable"},
}

var internal = kind{ErrInternal, "INTERNAL_ERROR", http.StatusInternalServerError, "an internal error occurred"}

// AppError is an error with the code, status and client-safe message an API
// response needs. Err keeps the cause for logs.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newError(k kind, message string, cause error) *AppError {
	if message == "" {
		message = k.message
	}
	err := k.sentinel
	if cause != nil {
		err = fmt.Errorf("%w: %w", k.sentinel, cause)
	}
	return &AppError{Code: k.code, Message: message, Status: k.status, Err: err}
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return newError(kinds[0], fmt.Sprintf("%s with id %s not found", resource, id), nil)
}

// InvalidInput creates a 400 error. message is shown to the client.
func InvalidInput(message string) *AppError {
	return newError(kinds[1], message, nil)
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *AppError {
	return newError(kinds[2], message, nil)
}

// Forbidden creates a 403 error.
func Forbidden(message string) *AppError {
	return newError(kinds[3], message, nil)
}

// Persistence creates a 503 error for a store that could not be read or
// written. The message is safe to show to the submitting user.
func Persistence(err error) *AppError {
	return newError(kinds[4], "", err)
}

// CorruptData creates a 500 error for stored data that cannot be parsed.
func CorruptData(err error) *AppError {
	return newError(kinds[5], "", err)
}

// Internal creates a 500 error that hides err from the client.
func Internal(err error) *AppError {
	return &AppError{Code: internal.code, Message: internal.message, Status: internal.status, Err: err}
}

// FromError returns err as an *AppError. An AppError anywhere in the chain
// is returned as is; otherwise the first matching sentinel decides the code,
// and anything unrecognised becomes an internal error.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	for _, k := range kinds {
		if errors.Is(err, k.sentinel) {
			message := k.message
			if message == "" {
				message = err.Error()
			}
			return &AppError{Code: k.code, Message: message, Status: k.status, Err: err}
		}
	}
	return Internal(err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	return FromError(err).Status
}
