package output

import (
	"context"

	"servcore/internal/domain/entities"
)

// RegistrationRepository owns the canonical registration state. The storage
// layer enforces at most one active registration per (event, role, user) as
// a backstop against races the in-process locks cannot see; Create surfaces
// that constraint as domain.ErrDuplicateRegistration.
type RegistrationRepository interface {
	Create(ctx context.Context, registration *entities.Registration) error
	FindActive(ctx context.Context, eventID, roleID, userID string) (*entities.Registration, error)
	FindActiveByRole(ctx context.Context, eventID, roleID string) ([]entities.Registration, error)
	CountActive(ctx context.Context, eventID, roleID string) (int64, error)
	CountActiveByEvent(ctx context.Context, eventID string) (map[string]int64, error)
	// MarkCancelled flips one active registration to cancelled. removedBy is
	// empty for self-cancellation. Returns domain.ErrNotRegistered when the
	// registration is no longer active.
	MarkCancelled(ctx context.Context, id, removedBy string) error
	// UpdateRoleID atomically moves one active registration to another role.
	// Returns domain.ErrNotRegistered when the registration is no longer active.
	UpdateRoleID(ctx context.Context, id, toRoleID string) error
}
