package models

import "time"

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	CreatedAt    time.Time `json:"createdAt"`

	Profile *Profile `json:"profile,omitempty"`

	// Aggregates for the admin user listing.
	TotalBookings      int `json:"totalBookings"`
	TotalRegistrations int `json:"totalRegistrations"`
}

// Profile holds the extra per-user attributes created together with the user.
type Profile struct {
	UserID       int     `json:"userId"`
	Patronymic   string  `json:"patronymic,omitempty"`
	Telephone    string  `json:"telephone,omitempty"`
	AvatarKey    *string `json:"avatarKey,omitempty"`
	TelegramLink *string `json:"telegramLink,omitempty"`
	IsOrganizer  bool    `json:"isOrganizer"`
	IsAdmin      bool    `json:"isAdmin"`
}
