package session

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a session id is unknown, including repeats of
// finalize or cancel after the session was already removed.
var ErrNotFound = errors.New("sale session not found")

// ErrCapacityExceeded is returned when a sixth session is requested on one
// nozzle. The existing parked sessions are unmodified.
var ErrCapacityExceeded = fmt.Errorf("a nozzle holds at most %d parked sales", MaxHeldPerNozzle)

// GuardViolation reports a rejected workflow transition. The session is left
// exactly as it was; the cashier corrects the input and retries.
type GuardViolation struct {
	State  WorkflowState
	Reason string
}

func (e *GuardViolation) Error() string {
	return fmt.Sprintf("cannot advance from %s: %s", e.State, e.Reason)
}

// CollaboratorFailure reports a failed or timed-out call to an external
// collaborator (catalog, member directory, ledger). The session is preserved
// and the operation is retryable.
type CollaboratorFailure struct {
	Op  string
	Err error
}

func (e *CollaboratorFailure) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *CollaboratorFailure) Unwrap() error { return e.Err }
