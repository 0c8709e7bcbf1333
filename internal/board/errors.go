package board

import (
	"errors"
	"fmt"
)

// TransportError indicates the request never produced a usable response:
// the network failed, auth was rejected, or the server fell over.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError indicates local input that never round-trips, like a
// blank note. The UI disables submission for these rather than showing
// an error.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// ServerRejection indicates the request reached the server and was refused.
// Reason carries the server's human-readable explanation verbatim and must
// be shown to the user unchanged.
type ServerRejection struct {
	Reason string
}

func (e *ServerRejection) Error() string { return e.Reason }

// NotFoundError indicates the requested scope or resource does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// MutationFailed wraps any failure of a note or assignment mutation. The
// local list is guaranteed unchanged when this is returned.
type MutationFailed struct {
	Op  string
	Err error
}

func (e *MutationFailed) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *MutationFailed) Unwrap() error { return e.Err }

// ErrMutationInFlight is returned when a second mutation is attempted while
// one is still outstanding. The UI is expected to disable the triggering
// control, so hitting this means the guard was bypassed.
var ErrMutationInFlight = errors.New("a mutation is already in flight")
