package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"servcore/internal/domain"
	"servcore/internal/domain/entities"
	"servcore/internal/ports/input"
	"servcore/internal/ports/output"
)

var _ input.AdminUseCase = (*AdminService)(nil)

// AdminService handles role configuration writes. Capacity changes share the
// role's signup lock so they observe a stable active count.
type AdminService struct {
	events        output.EventRepository
	roles         output.RoleRepository
	registrations output.RegistrationRepository
	capacity      *CapacityStore
	locker        output.Locker
	lockTimeout   time.Duration
}

func NewAdminService(
	events output.EventRepository,
	roles output.RoleRepository,
	registrations output.RegistrationRepository,
	locker output.Locker,
	lockTimeout time.Duration,
) *AdminService {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &AdminService{
		events:        events,
		roles:         roles,
		registrations: registrations,
		capacity:      NewCapacityStore(roles, registrations),
		locker:        locker,
		lockTimeout:   lockTimeout,
	}
}

func (s *AdminService) CreateEvent(ctx context.Context, event *entities.Event) error {
	event.Title = strings.TrimSpace(event.Title)
	if event.Title == "" {
		return fmt.Errorf("event title is required")
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	return s.events.Create(ctx, event)
}

func (s *AdminService) CreateRole(ctx context.Context, role *entities.EventRole) error {
	role.Name = strings.TrimSpace(role.Name)
	if role.Name == "" {
		return fmt.Errorf("role name is required")
	}
	if role.MaxParticipants <= 0 {
		return fmt.Errorf("max participants must be a positive integer")
	}
	if _, err := s.events.FindByID(ctx, role.EventID); err != nil {
		return err
	}
	if role.ID == "" {
		role.ID = uuid.New().String()
	}
	return s.roles.Create(ctx, role)
}

// ListRoleSignups returns the active registrations for a role, oldest first.
// Organizer view; lock-free read.
func (s *AdminService) ListRoleSignups(ctx context.Context, eventID, roleID string) ([]entities.Registration, error) {
	if _, err := s.capacity.Role(ctx, eventID, roleID); err != nil {
		return nil, err
	}
	regs, err := s.registrations.FindActiveByRole(ctx, eventID, roleID)
	if err != nil {
		return nil, fmt.Errorf("list role signups: %w", err)
	}
	return regs, nil
}

// UpdateRoleCapacity changes a role's maxParticipants. Reducing capacity
// below the current active count is refused: the capacity invariant must
// hold after admin changes too, and shrinking past occupancy would break it
// without any registration having raced.
func (s *AdminService) UpdateRoleCapacity(ctx context.Context, eventID, roleID string, maxParticipants int) (*entities.EventRole, error) {
	if maxParticipants <= 0 {
		return nil, fmt.Errorf("max participants must be a positive integer")
	}

	var updated *entities.EventRole
	err := s.locker.WithLock(ctx, roleKey(eventID, roleID), s.lockTimeout, func() error {
		role, err := s.capacity.Role(ctx, eventID, roleID)
		if err != nil {
			return err
		}
		count, err := s.capacity.CountActive(ctx, eventID, roleID)
		if err != nil {
			return err
		}
		if maxParticipants < count {
			return domain.ErrCapacityBelowCount
		}
		if err := s.roles.UpdateMaxParticipants(ctx, eventID, roleID, maxParticipants); err != nil {
			return fmt.Errorf("update role capacity: %w", err)
		}
		role.MaxParticipants = maxParticipants
		updated = role
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
