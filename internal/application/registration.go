// Package application contains the registration engine: the only component
// callers invoke to mutate sign-up state. Every capacity-sensitive operation
// runs its read-check-write sequence inside a named lock, re-reading counts
// from the store at invocation time rather than trusting any in-memory tally.
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"servcore/internal/domain"
	"servcore/internal/domain/entities"
	"servcore/internal/ports/input"
	"servcore/internal/ports/output"
)

// DefaultLockTimeout bounds how long an operation waits for its critical
// section before failing with domain.ErrLockTimeout.
const DefaultLockTimeout = 5 * time.Second

var _ input.RegistrationUseCase = (*RegistrationService)(nil)

type RegistrationService struct {
	events        output.EventRepository
	roles         output.RoleRepository
	registrations output.RegistrationRepository
	capacity      *CapacityStore
	locker        output.Locker
	lockTimeout   time.Duration
}

func NewRegistrationService(
	events output.EventRepository,
	roles output.RoleRepository,
	registrations output.RegistrationRepository,
	locker output.Locker,
	lockTimeout time.Duration,
) *RegistrationService {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &RegistrationService{
		events:        events,
		roles:         roles,
		registrations: registrations,
		capacity:      NewCapacityStore(roles, registrations),
		locker:        locker,
		lockTimeout:   lockTimeout,
	}
}

// Lock keys. Sign-ups and admin removals serialize per role; cancels and
// moves serialize per role+user so they cannot race each other on the same
// record while leaving unrelated users unblocked.
func roleKey(eventID, roleID string) string {
	return fmt.Sprintf("role:%s:%s", eventID, roleID)
}

func cancelKey(eventID, roleID, userID string) string {
	return fmt.Sprintf("cancel:%s:%s:%s", eventID, roleID, userID)
}

func moveKey(eventID, fromRoleID, toRoleID, userID string) string {
	return fmt.Sprintf("move:%s:%s:%s:%s", eventID, fromRoleID, toRoleID, userID)
}

// SignUp registers a user for a role. The capacity pre-check inside the role
// lock rejects the common case cheaply; the storage uniqueness constraint and
// the post-write recheck catch what the lock cannot see (another process, or
// a writer outside the lock scope), so the system degrades to detect-and-
// reject instead of silently overbooking.
func (s *RegistrationService) SignUp(ctx context.Context, eventID, roleID, userID, notes string) (*entities.Registration, error) {
	// Fast path: reject unknown roles without touching the lock.
	if _, err := s.capacity.Role(ctx, eventID, roleID); err != nil {
		return nil, err
	}

	var created *entities.Registration
	err := s.locker.WithLock(ctx, roleKey(eventID, roleID), s.lockTimeout, func() error {
		// The role is re-read inside the lock: an admin capacity change
		// committed while this operation waited must be observed here.
		role, err := s.capacity.Role(ctx, eventID, roleID)
		if err != nil {
			return err
		}
		count, err := s.capacity.CountActive(ctx, eventID, roleID)
		if err != nil {
			return err
		}
		if count >= role.MaxParticipants {
			return domain.ErrCapacityExceeded
		}

		reg := &entities.Registration{
			ID:           uuid.New().String(),
			EventID:      eventID,
			RoleID:       roleID,
			UserID:       userID,
			Status:       domain.StatusActive,
			Notes:        notes,
			RegisteredAt: time.Now().UTC(),
		}
		if err := s.registrations.Create(ctx, reg); err != nil {
			if errors.Is(err, domain.ErrDuplicateRegistration) {
				return err
			}
			// Unexpected storage failure: re-read the count to tell a late
			// capacity race from a genuine infrastructure fault.
			recount, recountErr := s.capacity.CountActive(ctx, eventID, roleID)
			if recountErr == nil && recount >= role.MaxParticipants {
				return domain.ErrRoleBecameFull
			}
			return fmt.Errorf("create registration: %w", err)
		}
		created = reg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Cancel marks the user's active registration for a role as cancelled. No
// capacity check: cancellation only frees capacity. The lock serializes
// against a concurrent move touching the same record.
func (s *RegistrationService) Cancel(ctx context.Context, eventID, roleID, userID string) error {
	return s.locker.WithLock(ctx, cancelKey(eventID, roleID, userID), s.lockTimeout, func() error {
		reg, err := s.registrations.FindActive(ctx, eventID, roleID, userID)
		if err != nil {
			return err
		}
		return s.registrations.MarkCancelled(ctx, reg.ID, "")
	})
}

// MoveBetweenRoles transfers a user's active registration to another role of
// the same event. Both role locks are taken, in lexicographic key order so
// two opposing moves cannot deadlock; holding the target's signup lock keeps
// a concurrent SignUp into the target from racing the capacity check.
func (s *RegistrationService) MoveBetweenRoles(ctx context.Context, eventID, fromRoleID, toRoleID, userID string) (*entities.Registration, error) {
	if fromRoleID == toRoleID {
		// No-op move; just verify the registration exists.
		return s.registrations.FindActive(ctx, eventID, fromRoleID, userID)
	}

	var moved *entities.Registration
	err := s.locker.WithLock(ctx, moveKey(eventID, fromRoleID, toRoleID, userID), s.lockTimeout, func() error {
		first, second := roleKey(eventID, fromRoleID), roleKey(eventID, toRoleID)
		if second < first {
			first, second = second, first
		}
		return s.locker.WithLock(ctx, first, s.lockTimeout, func() error {
			return s.locker.WithLock(ctx, second, s.lockTimeout, func() error {
				reg, err := s.registrations.FindActive(ctx, eventID, fromRoleID, userID)
				if err != nil {
					return err
				}
				target, err := s.capacity.Role(ctx, eventID, toRoleID)
				if err != nil {
					return err
				}
				count, err := s.capacity.CountActive(ctx, eventID, toRoleID)
				if err != nil {
					return err
				}
				if count >= target.MaxParticipants {
					return domain.ErrTargetRoleFull
				}

				if err := s.registrations.UpdateRoleID(ctx, reg.ID, toRoleID); err != nil {
					if errors.Is(err, domain.ErrDuplicateRegistration) {
						return err
					}
					recount, recountErr := s.capacity.CountActive(ctx, eventID, toRoleID)
					if recountErr == nil && recount >= target.MaxParticipants {
						return domain.ErrTargetRoleBecameFull
					}
					return fmt.Errorf("move registration: %w", err)
				}
				reg.RoleID = toRoleID
				moved = reg
				return nil
			})
		})
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// AdminRemove cancels a user's active registration on behalf of an
// organizer, recording who removed them for the audit trail.
func (s *RegistrationService) AdminRemove(ctx context.Context, eventID, roleID, userID, removedBy string) error {
	return s.locker.WithLock(ctx, roleKey(eventID, roleID), s.lockTimeout, func() error {
		reg, err := s.registrations.FindActive(ctx, eventID, roleID, userID)
		if err != nil {
			return err
		}
		return s.registrations.MarkCancelled(ctx, reg.ID, removedBy)
	})
}

// GetRoleAvailability returns a point-in-time occupancy snapshot. Lock-free:
// the snapshot may be stale by the time the caller acts on it, which is fine
// for display purposes.
func (s *RegistrationService) GetRoleAvailability(ctx context.Context, eventID, roleID string) (entities.RoleAvailability, error) {
	return s.capacity.Availability(ctx, eventID, roleID)
}

// GetEventSignupCounts returns the active registration count for every role
// of an event, zero included.
func (s *RegistrationService) GetEventSignupCounts(ctx context.Context, eventID string) (map[string]int64, error) {
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	roles, err := s.roles.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	counts, err := s.registrations.CountActiveByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("count active registrations by event: %w", err)
	}

	out := make(map[string]int64, len(roles))
	for _, role := range roles {
		out[role.ID] = counts[role.ID]
	}
	return out, nil
}
