package types

import (
	"strings"
	"time"
)

// BookingTimeLayout is the wire format for booking window bounds.
const BookingTimeLayout = "2006-01-02 15:04"

// ParseBookingTime parses a "YYYY-MM-DD HH:MM" value in UTC.
func ParseBookingTime(value string) (time.Time, error) {
	return time.ParseInLocation(BookingTimeLayout, strings.TrimSpace(value), time.UTC)
}

// ParseOptionalBookingTime parses an optional window bound; an empty string
// yields nil (bound unset).
func ParseOptionalBookingTime(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := ParseBookingTime(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
