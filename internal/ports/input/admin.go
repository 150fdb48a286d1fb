package input

import (
	"context"

	"servcore/internal/domain/entities"
)

// AdminUseCase covers role configuration writes: event/role creation and
// capacity changes. Capacity changes go through the same per-role lock as
// sign-ups so they observe a consistent active count.
type AdminUseCase interface {
	CreateEvent(ctx context.Context, event *entities.Event) error
	CreateRole(ctx context.Context, role *entities.EventRole) error
	UpdateRoleCapacity(ctx context.Context, eventID, roleID string, maxParticipants int) (*entities.EventRole, error)
	ListRoleSignups(ctx context.Context, eventID, roleID string) ([]entities.Registration, error)
}
