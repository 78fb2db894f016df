package store

import (
	"fmt"
	"net/http"
)

// Error is a domain error carrying an HTTP status code. The persistence
// layer reports failures through these values; callers inspect them with
// errors.Is/As rather than catching exceptions.
type Error struct {
	Code    int    // HTTP status code
	Message string // user-facing message
	Err     error  // underlying cause, optional
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPCode returns the HTTP status associated with this error.
func (e *Error) HTTPCode() int { return e.Code }

// Is lets wrapped variants match their sentinel by status code, so
// errors.Is(ErrNotFound.WithMessage("tag not found"), ErrNotFound) holds.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithMessage returns a copy with a custom message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Code: e.Code, Message: msg, Err: e.Err}
}

// WithCause returns a copy wrapping an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: err}
}

// Sentinel errors.
var (
	ErrNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "resource not found",
	}

	ErrAlreadyExists = &Error{
		Code:    http.StatusConflict,
		Message: "resource already exists",
	}

	ErrInvalidInput = &Error{
		Code:    http.StatusBadRequest,
		Message: "invalid input",
	}

	// ErrConfirmationRequired guards destructive multi-verse operations:
	// the client must retry with an explicit confirmation flag.
	ErrConfirmationRequired = &Error{
		Code:    http.StatusPreconditionRequired,
		Message: "confirmation required",
	}

	ErrUnauthorized = &Error{
		Code:    http.StatusUnauthorized,
		Message: "unauthorized",
	}

	ErrForbidden = &Error{
		Code:    http.StatusForbidden,
		Message: "forbidden",
	}

	// ErrBusy rejects a toggle that arrives while another one is still
	// in flight or inside its debounce window.
	ErrBusy = &Error{
		Code:    http.StatusTooManyRequests,
		Message: "operation already in flight",
	}
)
