package models

import "fmt"

// Status is the shared lifecycle of bookings and registrations. A request
// starts as NEW and either gets confirmed or canceled; a confirmed one can
// still be canceled. Which cancellation state applies is derived from the
// status the record held at cancel time, and the two canceled states are
// terminal.
type Status string

const (
	StatusNew                   Status = "NEW"
	StatusConfirmed             Status = "CONFIRMED"
	StatusCanceledBeforeConfirm Status = "CANCELED_BEFORE_CONFIRM"
	StatusCanceledAfterConfirm  Status = "CANCELED_AFTER_CONFIRM"
)

// Blocks reports whether the status makes its interval count against
// availability. Only confirmed bookings block; pending and canceled ones
// never do.
func (s Status) Blocks() bool {
	return s == StatusConfirmed
}

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusCanceledBeforeConfirm || s == StatusCanceledAfterConfirm
}

// CanConfirm reports whether the status allows moving to CONFIRMED.
func (s Status) CanConfirm() bool {
	return s == StatusNew
}

// CancelTarget resolves which canceled state a cancellation leads to, based
// on the current status. Canceling an already canceled record is an error.
func (s Status) CancelTarget() (Status, error) {
	switch s {
	case StatusNew:
		return StatusCanceledBeforeConfirm, nil
	case StatusConfirmed:
		return StatusCanceledAfterConfirm, nil
	default:
		return "", fmt.Errorf("%w: cannot cancel from %s", ErrBadTransition, s)
	}
}
