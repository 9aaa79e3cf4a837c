package models

import "time"

// Notification is a persisted in-app message. Delivered over the websocket
// when the user is online, fetched from here otherwise.
type Notification struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Text      string    `json:"text"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}
