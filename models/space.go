package models

import "time"

type Space struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Capacity    int       `json:"capacity"`
	BuildingID  int       `json:"buildingId"`
	RoomNumber  string    `json:"roomNumber"`
	IsVisible   bool      `json:"isVisible"`
	CreatedAt   time.Time `json:"createdAt"`

	Building *Building `json:"building,omitempty"`
	Items    []Item    `json:"items,omitempty"`
	Images   []Image   `json:"images,omitempty"`
	Reviews  []Review  `json:"reviews,omitempty"`
	FavCount int       `json:"favCount"`
}

// SpaceFilters are the catalog search parameters. DateFrom/DateTo carry the
// availability window; both optional.
type SpaceFilters struct {
	Query       string
	MinCapacity int
	City        string
	Item        string
	DateFrom    *time.Time
	DateTo      *time.Time
}
