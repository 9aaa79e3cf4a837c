package models

import "time"

type Review struct {
	ID        int       `json:"id"`
	SpaceID   int       `json:"spaceId"`
	UserID    int       `json:"userId"`
	Text      string    `json:"text"`
	IsVisible bool      `json:"isVisible"`
	CreatedAt time.Time `json:"createdAt"`

	AuthorName string `json:"authorName,omitempty"`
}
