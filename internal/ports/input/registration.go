package input

import (
	"context"

	"servcore/internal/domain/entities"
)

// RegistrationUseCase is the engine's full external surface. Controllers and
// other adapters call these operations and nothing else.
type RegistrationUseCase interface {
	SignUp(ctx context.Context, eventID, roleID, userID, notes string) (*entities.Registration, error)
	Cancel(ctx context.Context, eventID, roleID, userID string) error
	MoveBetweenRoles(ctx context.Context, eventID, fromRoleID, toRoleID, userID string) (*entities.Registration, error)
	AdminRemove(ctx context.Context, eventID, roleID, userID, removedBy string) error
	GetRoleAvailability(ctx context.Context, eventID, roleID string) (entities.RoleAvailability, error)
	GetEventSignupCounts(ctx context.Context, eventID string) (map[string]int64, error)
}
