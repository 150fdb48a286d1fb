package entities

import "time"

// Event is a scheduled gathering that owns a set of capacity-limited roles.
type Event struct {
	ID        string
	Title     string
	StartsAt  time.Time // zero = not scheduled yet
	CreatedAt time.Time
	UpdatedAt time.Time
}
