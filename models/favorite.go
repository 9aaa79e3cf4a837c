package models

import "time"

// Favorite marks a space or an event (exactly one of the two) as saved by a
// user.
type Favorite struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	SpaceID   *int      `json:"spaceId,omitempty"`
	EventID   *int      `json:"eventId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
