package entities

import "time"

// EventRole is a capacity-limited slot category within an event, e.g.
// "Worship Leader: 1 slot" or "Greeter: 5 slots".
type EventRole struct {
	ID              string
	EventID         string
	Name            string
	MaxParticipants int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RoleAvailability is a point-in-time snapshot of a role's occupancy.
type RoleAvailability struct {
	Current   int `json:"current"`
	Max       int `json:"max"`
	Available int `json:"available"`
}
