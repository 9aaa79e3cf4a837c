package models

import "time"

type Organizer struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	LeadUserID  int       `json:"leadUserId"`
	CharterKey  *string   `json:"charterKey,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`

	EventCount int `json:"eventCount,omitempty"`
}
