package models

import "time"

// Registration signs a user up for an event. It shares the booking lifecycle
// but carries no interval.
type Registration struct {
	ID      int       `json:"id"`
	EventID int       `json:"eventId"`
	UserID  int       `json:"userId"`
	RegDate time.Time `json:"regDate"`
	Status  Status    `json:"status"`

	EventName string `json:"eventName,omitempty"`
	UserName  string `json:"userName,omitempty"`
}
