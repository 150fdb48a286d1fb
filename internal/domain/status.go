package domain

// Registration statuses. A registration is created active and may only
// transition to cancelled; cancelled is terminal for that record. A fresh
// sign-up after cancellation creates a new record rather than reviving the
// old one, which keeps the audit trail append-only.
const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
)
