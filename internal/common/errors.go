package common

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrArgumentRequired is the sentinel wrapped by every missing-argument failure.
var ErrArgumentRequired = errors.New("argument required")

// CodeArgumentRequired is the machine-readable code attached to missing-argument errors.
const CodeArgumentRequired = "ARGUMENT_REQUIRED"

// AppError represents an error with an attached code and HTTP status.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Code
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// IsAppError checks whether the error is an AppError.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}

// ArgumentRequired reports that the named mandatory argument was not supplied.
func ArgumentRequired(name string) *AppError {
	return &AppError{
		Code:       CodeArgumentRequired,
		Message:    fmt.Sprintf("argument required: %s", name),
		HTTPStatus: http.StatusBadRequest,
		Err:        ErrArgumentRequired,
		Details:    map[string]string{"argument": name},
	}
}

// MissingArgument returns the argument name carried by an ArgumentRequired error.
func MissingArgument(err error) (string, bool) {
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Code != CodeArgumentRequired {
		return "", false
	}
	details, ok := appErr.Details.(map[string]string)
	if !ok {
		return "", false
	}
	name, ok := details["argument"]
	return name, ok
}
