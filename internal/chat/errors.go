package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation rejects bad input at the controller boundary before any
	// collaborator is involved: blank submissions, mutations while viewing
	// history, unconfirmed destructive operations.
	ErrValidation = errors.New("validation failed")

	// ErrBusy is returned while a transport round-trip is still outstanding.
	ErrBusy = errors.New("a message is already pending")

	// ErrAuth means the credential is absent, expired or rejected.
	ErrAuth = errors.New("authentication required")

	// ErrNotFound means the requested conversation does not exist.
	ErrNotFound = errors.New("conversation not found")
)

// TransportError wraps a network or server failure from a collaborator call.
// It is recoverable: callers report it and keep their prior state.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func transportErr(op string, err error) error {
	return &TransportError{Op: op, Err: err}
}

// IsTransportError reports whether err is (or wraps) a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
