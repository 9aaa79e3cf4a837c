// Package clock provides the time capability injected into handlers.
// "Current time" is read per request, never cached at process start, so
// week-window statistics stay correct in a long-running process.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// System reads the wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Fixed always returns the same instant. Test helper.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }
