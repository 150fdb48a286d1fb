package entities

import "time"

// Registration is a user's claim on an event role. Records are never
// physically deleted: cancellation and admin removal flip Status to
// cancelled and the record is kept for audit.
type Registration struct {
	ID           string
	EventID      string
	RoleID       string
	UserID       string
	Status       string
	Notes        string
	RemovedBy    string // set when an admin cancelled the registration
	RegisteredAt time.Time
	CancelledAt  time.Time // zero while active
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
