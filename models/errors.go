package models

import "errors"

var (
	// ErrInvalidRange is returned when a booking window is unparseable or
	// date_from is not strictly before date_to.
	ErrInvalidRange = errors.New("date_from must be before date_to")

	// ErrSpaceOccupied is returned when the requested window overlaps a
	// confirmed booking.
	ErrSpaceOccupied = errors.New("space occupied in the selected period")

	// ErrAlreadyRegistered is returned when the user already holds a live
	// registration for the event.
	ErrAlreadyRegistered = errors.New("already registered for this event")

	ErrNotFound      = errors.New("not found")
	ErrBadTransition = errors.New("status transition not allowed")
)
