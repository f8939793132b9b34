package apperrors

import (
	"errors"
	"net/http"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrDuplicateField   = errors.New("duplicate field value")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrUserGone           = errors.New("user belonging to token no longer exists")
	ErrPasswordChanged    = errors.New("password changed after token was issued")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidID        = errors.New("invalid identifier")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")

	// Password reset errors
	ErrResetTokenInvalid = errors.New("invalid or expired password reset token")
)

// AppError is an operational error: an anticipated, user-facing failure
// carrying the HTTP status it should be reported with. Anything that does
// not unwrap to an AppError is treated as a programming defect and hidden
// behind a generic 500 outside development mode.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// Status returns the envelope status string for the error: "fail" for
// client errors, "error" for server errors.
func (e *AppError) Status() string {
	if e.StatusCode >= http.StatusInternalServerError {
		return "error"
	}
	return "fail"
}

// NewNotFoundError creates an operational 404 error
func NewNotFoundError(message string) error {
	return &AppError{Err: ErrResourceNotFound, Message: message, StatusCode: http.StatusNotFound}
}

// NewBadRequestError creates an operational 400 error
func NewBadRequestError(message string) error {
	return &AppError{Err: ErrBadRequest, Message: message, StatusCode: http.StatusBadRequest}
}

// NewValidationError creates an operational 400 error for invalid input
func NewValidationError(message string) error {
	return &AppError{Err: ErrValidationFailed, Message: message, StatusCode: http.StatusBadRequest}
}

// NewUnauthorizedError creates an operational 401 error
func NewUnauthorizedError(err error, message string) error {
	return &AppError{Err: err, Message: message, StatusCode: http.StatusUnauthorized}
}

// NewForbiddenError creates an operational 403 error
func NewForbiddenError(message string) error {
	return &AppError{Err: ErrPermissionDenied, Message: message, StatusCode: http.StatusForbidden}
}

// NewDuplicateError creates an operational 400 error for unique-index violations
func NewDuplicateError(message string) error {
	return &AppError{Err: ErrDuplicateField, Message: message, StatusCode: http.StatusBadRequest}
}

// NewInternalError wraps a failure we anticipate but cannot recover from,
// such as mail dispatch during the password-reset flow, with a 500 status.
func NewInternalError(err error, message string) error {
	return &AppError{Err: err, Message: message, StatusCode: http.StatusInternalServerError}
}

// AsAppError returns the AppError in err's chain, if any.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
