package application

import (
	"context"
	"fmt"

	"servcore/internal/domain/entities"
	"servcore/internal/ports/output"
)

// CapacityStore provides read access to role definitions and active
// registration counts. It never caches across calls and takes no locks of
// its own: when a read must stay consistent with a subsequent write, the
// caller holds the appropriate lock around both.
type CapacityStore struct {
	roles         output.RoleRepository
	registrations output.RegistrationRepository
}

func NewCapacityStore(
	roles output.RoleRepository,
	registrations output.RegistrationRepository,
) *CapacityStore {
	return &CapacityStore{roles: roles, registrations: registrations}
}

// Role resolves a role definition or domain.ErrRoleNotFound.
func (c *CapacityStore) Role(ctx context.Context, eventID, roleID string) (*entities.EventRole, error) {
	return c.roles.FindByID(ctx, eventID, roleID)
}

// CountActive re-reads the number of active registrations for a role from
// the store. Cancelled registrations never count.
func (c *CapacityStore) CountActive(ctx context.Context, eventID, roleID string) (int, error) {
	count, err := c.registrations.CountActive(ctx, eventID, roleID)
	if err != nil {
		return 0, fmt.Errorf("count active registrations: %w", err)
	}
	return int(count), nil
}

// Availability returns a point-in-time occupancy snapshot for a role.
func (c *CapacityStore) Availability(ctx context.Context, eventID, roleID string) (entities.RoleAvailability, error) {
	role, err := c.Role(ctx, eventID, roleID)
	if err != nil {
		return entities.RoleAvailability{}, err
	}
	count, err := c.CountActive(ctx, eventID, roleID)
	if err != nil {
		return entities.RoleAvailability{}, err
	}
	available := role.MaxParticipants - count
	if available < 0 {
		available = 0
	}
	return entities.RoleAvailability{
		Current:   count,
		Max:       role.MaxParticipants,
		Available: available,
	}, nil
}
