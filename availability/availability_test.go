package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", value)
	require.NoError(t, err)
	return parsed
}

func tsp(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed := ts(t, value)
	return &parsed
}

// Booking A from the compatibility scenarios: [10:00, 12:00) confirmed.
func bookingA(t *testing.T) Interval {
	return Interval{From: ts(t, "2025-01-01 10:00"), To: ts(t, "2025-01-01 12:00")}
}

func TestOverlaps_BothBounds(t *testing.T) {
	a := bookingA(t)

	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"fully inside", "2025-01-01 10:30", "2025-01-01 11:30", true},
		{"covers booking", "2025-01-01 09:00", "2025-01-01 13:00", true},
		{"overlaps first minute", "2025-01-01 09:00", "2025-01-01 10:01", true},
		{"overlaps last minute", "2025-01-01 11:59", "2025-01-01 13:00", true},
		{"identical interval", "2025-01-01 10:00", "2025-01-01 12:00", true},
		{"touching at end is free", "2025-01-01 12:00", "2025-01-01 13:00", false},
		{"touching at start is free", "2025-01-01 09:00", "2025-01-01 10:00", false},
		{"entirely before", "2025-01-01 07:00", "2025-01-01 08:00", false},
		{"entirely after", "2025-01-01 13:00", "2025-01-01 14:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Window{From: tsp(t, tt.from), To: tsp(t, tt.to)}
			assert.Equal(t, tt.want, w.Overlaps(a))
		})
	}
}

func TestOverlaps_OnlyFrom(t *testing.T) {
	a := bookingA(t)

	tests := []struct {
		name string
		from string
		want bool
	}{
		// boundary at booking start is a conflict (From <= w.From rule)
		{"at booking start", "2025-01-01 10:00", true},
		{"inside booking", "2025-01-01 11:00", true},
		// booking end is exclusive
		{"at booking end", "2025-01-01 12:00", false},
		{"before booking", "2025-01-01 09:00", false},
		{"after booking", "2025-01-01 13:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Window{From: tsp(t, tt.from)}
			assert.Equal(t, tt.want, w.Overlaps(a))
		})
	}
}

func TestOverlaps_OnlyTo(t *testing.T) {
	a := bookingA(t)

	tests := []struct {
		name string
		to   string
		want bool
	}{
		// the asymmetric rule: To at booking end still conflicts (To >= iv.To)
		{"at booking end", "2025-01-01 12:00", true},
		{"inside booking", "2025-01-01 11:00", true},
		// booking start is not "inside at the end" for the To-only rule
		{"at booking start", "2025-01-01 10:00", false},
		{"before booking", "2025-01-01 09:00", false},
		{"after booking", "2025-01-01 13:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Window{To: tsp(t, tt.to)}
			assert.Equal(t, tt.want, w.Overlaps(a))
		})
	}
}

func TestOverlaps_NoBounds(t *testing.T) {
	w := Window{}
	assert.False(t, w.Overlaps(bookingA(t)))
	assert.True(t, Free(w, []Interval{bookingA(t)}))
	assert.False(t, w.Bounded())
}

func TestWindow_InvertedNeverMatches(t *testing.T) {
	w := Window{From: tsp(t, "2025-01-01 10:00"), To: tsp(t, "2025-01-01 09:00")}
	assert.False(t, w.Valid())
	// an impossible window conflicts with nothing...
	assert.False(t, w.Overlaps(bookingA(t)))
	// ...and callers must reject it rather than read Free as approval
	assert.True(t, Free(w, []Interval{bookingA(t)}))
}

func TestWindow_EqualBoundsInvalid(t *testing.T) {
	w := Window{From: tsp(t, "2025-01-01 10:00"), To: tsp(t, "2025-01-01 10:00")}
	assert.False(t, w.Valid())
}

func TestConflictExists(t *testing.T) {
	a := bookingA(t)
	b := Interval{From: ts(t, "2025-01-01 14:00"), To: ts(t, "2025-01-01 15:00")}

	w := Window{From: tsp(t, "2025-01-01 12:00"), To: tsp(t, "2025-01-01 13:00")}
	assert.False(t, ConflictExists(w, []Interval{a, b}), "back-to-back slot between bookings")

	w = Window{From: tsp(t, "2025-01-01 14:30"), To: tsp(t, "2025-01-01 16:00")}
	assert.True(t, ConflictExists(w, []Interval{a, b}))

	assert.False(t, ConflictExists(w, nil), "no confirmed bookings, always free")
}

func TestFree_SingleToBoundScenario(t *testing.T) {
	// Only windowTo=11:00 against [10:00, 12:00): 10:00 < 11:00 and 12:00 >= 11:00,
	// so the space is occupied.
	w := Window{To: tsp(t, "2025-01-01 11:00")}
	assert.False(t, Free(w, []Interval{bookingA(t)}))
}
