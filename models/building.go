package models

import "time"

type Building struct {
	ID        int       `json:"id"`
	City      string    `json:"city"`
	Street    string    `json:"street"`
	House     string    `json:"house"`
	CreatedAt time.Time `json:"createdAt"`
}

func (b Building) Address() string {
	return b.City + ", " + b.Street + ", " + b.House
}
