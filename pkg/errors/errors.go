package errors

import (
	stderrors "errors"
	"fmt"
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error codes
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInternalError     = "INTERNAL_ERROR"
	ErrCodeAlreadyExists     = "ALREADY_EXISTS"
	ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"

	// Friend request state machine
	ErrCodeInvalidState   = "INVALID_STATE"
	ErrCodeInvalidTarget  = "INVALID_TARGET"
	ErrCodeAlreadyFriends = "ALREADY_FRIENDS"
)

// businessCodes are rule violations reported to the caller as a failed outcome
// rather than propagated as faults.
var businessCodes = map[string]bool{
	ErrCodeValidation:     true,
	ErrCodeNotFound:       true,
	ErrCodeUnauthorized:   true,
	ErrCodeForbidden:      true,
	ErrCodeAlreadyExists:  true,
	ErrCodeInvalidState:   true,
	ErrCodeInvalidTarget:  true,
	ErrCodeAlreadyFriends: true,
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first AppError in err's chain, or "" when there is none.
func CodeOf(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

// IsBusiness reports whether err is a business-rule violation.
func IsBusiness(err error) bool {
	appErr, ok := As(err)
	return ok && businessCodes[appErr.Code]
}
