// ================== pkg/errors/errors.go =================
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound        = errors.New("resource not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrInternal        = errors.New("internal server error")
	ErrDuplicate       = errors.New("resource already exists")
	ErrValidation      = errors.New("validation failed")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUpstream        = errors.New("upstream provider error")
)

// AppError carries a sentinel kind, a client-facing message and an optional
// HTTP status override (used for upstream errors).
type AppError struct {
	Kind    error
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newAppError(kind error, message string) *AppError {
	if message == "" {
		message = kind.Error()
	}
	return &AppError{Kind: kind, Message: message}
}

func Validation(message string) *AppError      { return newAppError(ErrValidation, message) }
func InvalidArgument(message string) *AppError { return newAppError(ErrInvalidArgument, message) }
func Unauthorized(message string) *AppError    { return newAppError(ErrUnauthorized, message) }
func Forbidden(message string) *AppError       { return newAppError(ErrForbidden, message) }
func NotFound(message string) *AppError        { return newAppError(ErrNotFound, message) }
func Conflict(message string) *AppError        { return newAppError(ErrDuplicate, message) }

// Upstream wraps a failed call to an external provider. A zero status means the
// provider did not supply one.
func Upstream(status int, message string) *AppError {
	e := newAppError(ErrUpstream, message)
	e.Status = status
	return e
}

// Internal wraps an unexpected failure; the cause is kept for logging only.
func Internal(err error) *AppError {
	return &AppError{Kind: ErrInternal, Message: "Internal server error", Err: err}
}

// HTTPStatus maps an error onto the status code the API answers with.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrUpstream):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message of err. Errors outside the
// taxonomy never leak their text.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && !errors.Is(appErr.Kind, ErrInternal) {
		return appErr.Message
	}
	return "Internal server error"
}

// Code returns a stable machine-readable code for err.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "VALIDATION_FAILED"
	case errors.Is(err, ErrInvalidArgument):
		return "INVALID_ARGUMENT"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrDuplicate):
		return "CONFLICT"
	case errors.Is(err, ErrUpstream):
		return "UPSTREAM_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}
