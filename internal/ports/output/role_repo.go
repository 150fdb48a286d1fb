package output

import (
	"context"

	"servcore/internal/domain/entities"
)

type RoleRepository interface {
	Create(ctx context.Context, role *entities.EventRole) error
	FindByID(ctx context.Context, eventID, roleID string) (*entities.EventRole, error)
	FindByEventID(ctx context.Context, eventID string) ([]entities.EventRole, error)
	UpdateMaxParticipants(ctx context.Context, eventID, roleID string, maxParticipants int) error
}
