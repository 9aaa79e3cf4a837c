package models

import "time"

// Event is a single-instant happening hosted in a space. Events are not
// range-booked, so availability conflict detection never applies to them.
type Event struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	SpaceID     *int      `json:"spaceId,omitempty"`
	OrganizerID int       `json:"organizerId"`
	IsVisible   bool      `json:"isVisible"`
	CreatedAt   time.Time `json:"createdAt"`

	Space     *Space     `json:"space,omitempty"`
	Organizer *Organizer `json:"organizer,omitempty"`
	Items     []Item     `json:"items,omitempty"`
	Images    []Image    `json:"images,omitempty"`
	RegCount  int        `json:"regCount"`
}
