package models

import "time"

// Item is a feature a space or an event can carry (projector, whiteboard,
// catering and so on). Space and event features live in separate tables but
// share this shape.
type Item struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
