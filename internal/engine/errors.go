// Package engine implements the reservation and approval engine: the
// single entry point that authorizes callers, sequences conflict
// checks, lifecycle transitions and the reaction ledger, and commits
// every mutation as one database transaction.
package engine

import (
	"errors"
	"fmt"
	"strings"
)

// The engine reports every failure as exactly one of the following
// kinds.  Handlers translate them into HTTP status codes; callers can
// rely on errors.Is across any amount of added context.
var (
	// ErrUnauthenticated means no valid user identity accompanied the call.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden means the role/ownership policy rejected the caller.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound means a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInterval means the requested slot is empty, inverted or in the past.
	ErrInvalidInterval = errors.New("invalid interval")
	// ErrSlotConflict means the requested slot overlaps an existing booking.
	ErrSlotConflict = errors.New("slot conflict")
	// ErrInvalidTransition means the approval workflow rejected a status change.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrEmptyContent means a required text field trimmed to nothing.
	ErrEmptyContent = errors.New("empty content")
	// ErrUnavailable means the store did not answer within the operation
	// deadline.  No partial write was performed; the caller may retry.
	ErrUnavailable = errors.New("store unavailable")
)

// PartialFailure reports a multi-step operation that was interrupted
// after some steps committed.  Completed names the finished steps so a
// retry can treat them as no-ops (every cascade step is idempotent).
type PartialFailure struct {
	Completed []string
	Err       error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("partial failure after %s: %v", strings.Join(e.Completed, ", "), e.Err)
}

func (e *PartialFailure) Unwrap() error { return e.Err }
