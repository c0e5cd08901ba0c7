package api

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for backend failures. Match with errors.Is.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrRegistration       = errors.New("registration failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrUnavailable        = errors.New("server unavailable")
	ErrUnknown            = errors.New("unknown error")
)

// Error is a failed backend operation: the kind it maps to, the HTTP status
// that produced it (0 for transport failures) and the backend-provided
// message when the payload carried one.
type Error struct {
	Kind    error
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Message)
	case e.cause != nil:
		return fmt.Sprintf("%s: %s", e.Kind.Error(), e.cause.Error())
	default:
		return e.Kind.Error()
	}
}

func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// fallbackMessages is the user-facing text shown when the backend payload
// carries no message of its own.
var fallbackMessages = map[error]string{
	ErrInvalidCredentials: "Invalid username or password",
	ErrAccountDisabled:    "Your account is disabled. Contact an administrator.",
	ErrRegistration:       "Could not register the user",
	ErrUnauthorized:       "Your session has expired. Please log in again.",
	ErrForbidden:          "You do not have permission to do that",
	ErrNotFound:           "Not found",
	ErrValidation:         "Missing or invalid fields",
	ErrUnavailable:        "Cannot reach the server",
}

// UserMessage returns display text for err: the backend message when one was
// delivered, otherwise a generic fallback for the error kind.
func UserMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	for kind, msg := range fallbackMessages {
		if errors.Is(err, kind) {
			return msg
		}
	}
	return "Something went wrong"
}
