package models

import "time"

// Booking reserves a space for the half-open interval [DateFrom, DateTo).
// BookDate is the immutable creation timestamp.
type Booking struct {
	ID       int       `json:"id"`
	SpaceID  int       `json:"spaceId"`
	UserID   int       `json:"userId"`
	DateFrom time.Time `json:"dateFrom"`
	DateTo   time.Time `json:"dateTo"`
	BookDate time.Time `json:"bookDate"`
	Status   Status    `json:"status"`

	SpaceName string `json:"spaceName,omitempty"`
	UserName  string `json:"userName,omitempty"`
}
