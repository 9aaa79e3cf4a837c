// Package availability decides whether a space is free during a time window,
// against the set of that space's confirmed bookings. The same predicate is
// used when validating a new booking and when filtering the space catalog, so
// the two call sites can never disagree on what counts as a conflict.
package availability

import "time"

// Interval is a half-open booking interval [From, To).
type Interval struct {
	From time.Time
	To   time.Time
}

// Window is a candidate half-open window [From, To). Either bound may be nil:
// a nil bound leaves that side unconstrained. A window with both bounds nil
// performs no filtering at all.
type Window struct {
	From *time.Time
	To   *time.Time
}

// Bounded reports whether at least one bound is set.
func (w Window) Bounded() bool {
	return w.From != nil || w.To != nil
}

// Valid reports whether the window is usable. A window with both bounds set
// requires From < To; an inverted or empty window matches nothing and callers
// must treat it as "no results", never as "everything available".
func (w Window) Valid() bool {
	if w.From != nil && w.To != nil {
		return w.From.Before(*w.To)
	}
	return true
}

// Overlaps reports whether the window conflicts with an existing interval.
// Touching endpoints do not overlap: a booking ending exactly at w.From or
// starting exactly at w.To leaves the window free.
//
// The two one-sided cases intentionally use different comparisons on each
// side. With only From set, the instant From conflicts when it falls at the
// start of or inside a booking; with only To set, the instant To conflicts
// when it falls inside or at the end of a booking. This asymmetry is part of
// the compatibility contract and must not be "fixed".
func (w Window) Overlaps(iv Interval) bool {
	if !w.Valid() {
		return false
	}
	switch {
	case w.From != nil && w.To != nil:
		return !(iv.To.Before(*w.From) || iv.To.Equal(*w.From) ||
			iv.From.After(*w.To) || iv.From.Equal(*w.To))
	case w.From != nil:
		return !iv.From.After(*w.From) && iv.To.After(*w.From)
	case w.To != nil:
		return iv.From.Before(*w.To) && !iv.To.Before(*w.To)
	default:
		return false
	}
}

// ConflictExists reports whether any of the given confirmed-booking intervals
// overlaps the window.
func ConflictExists(w Window, bookings []Interval) bool {
	for _, b := range bookings {
		if w.Overlaps(b) {
			return true
		}
	}
	return false
}

// Free is the availability check used by the catalog filter: true when no
// confirmed booking overlaps the window. An unbounded window is always free.
func Free(w Window, bookings []Interval) bool {
	return !ConflictExists(w, bookings)
}
