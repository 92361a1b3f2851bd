package common

import (
	"errors"
	"fmt"
)

// Sentinel errors for the messaging domain. Callers classify with
// errors.Is; the transport layer maps them to status codes.
var (
	// ErrValidation marks caller input that fails a precondition.
	ErrValidation = errors.New("validation failed")

	// ErrUnknownIdentity marks a sender or receiver id with no account
	// behind it.
	ErrUnknownIdentity = errors.New("unknown identity")

	// ErrNotFound marks a lookup that matched nothing.
	ErrNotFound = errors.New("not found")
)

// ValidationErrorf wraps ErrValidation with detail.
func ValidationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

// UnknownIdentityf wraps ErrUnknownIdentity with detail.
func UnknownIdentityf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUnknownIdentity}, args...)...)
}
