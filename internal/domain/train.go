package domain

import "time"

type Train struct {
	ID         string
	Name       string
	Number     string
	Type       string
	TotalSeats int
	Amenities  []string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
