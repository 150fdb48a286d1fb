package application

// In-memory repository fakes for exercising the engine without PostgreSQL.
// memRegistrationRepo mirrors the storage contract the real repo gets from
// the partial unique index: Create and UpdateRoleID reject a second active
// registration for the same (event, role, user) atomically.

import (
	"context"
	"sync"
	"time"

	"servcore/internal/domain"
	"servcore/internal/domain/entities"
	"servcore/internal/ports/output"
)

type memEventRepo struct {
	mu     sync.Mutex
	events map[string]entities.Event
}

var _ output.EventRepository = (*memEventRepo)(nil)

func newMemEventRepo() *memEventRepo {
	return &memEventRepo{events: make(map[string]entities.Event)}
}

func (r *memEventRepo) Create(_ context.Context, event *entities.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.ID] = *event
	return nil
}

func (r *memEventRepo) FindByID(_ context.Context, id string) (*entities.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return &event, nil
}

type memRoleRepo struct {
	mu    sync.Mutex
	roles map[string]entities.EventRole // eventID + "/" + roleID
}

var _ output.RoleRepository = (*memRoleRepo)(nil)

func newMemRoleRepo() *memRoleRepo {
	return &memRoleRepo{roles: make(map[string]entities.EventRole)}
}

func (r *memRoleRepo) Create(_ context.Context, role *entities.EventRole) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[role.EventID+"/"+role.ID] = *role
	return nil
}

func (r *memRoleRepo) FindByID(_ context.Context, eventID, roleID string) (*entities.EventRole, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[eventID+"/"+roleID]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	return &role, nil
}

func (r *memRoleRepo) FindByEventID(_ context.Context, eventID string) ([]entities.EventRole, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.EventRole
	for _, role := range r.roles {
		if role.EventID == eventID {
			out = append(out, role)
		}
	}
	return out, nil
}

func (r *memRoleRepo) UpdateMaxParticipants(_ context.Context, eventID, roleID string, maxParticipants int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := eventID + "/" + roleID
	role, ok := r.roles[key]
	if !ok {
		return domain.ErrRoleNotFound
	}
	role.MaxParticipants = maxParticipants
	r.roles[key] = role
	return nil
}

type memRegistrationRepo struct {
	mu   sync.Mutex
	regs map[string]entities.Registration // by registration ID

	// createHook, when set, runs inside Create's critical section before the
	// uniqueness check; returning an error makes the insert fail with it.
	createHook func(reg *entities.Registration) error
}

var _ output.RegistrationRepository = (*memRegistrationRepo)(nil)

func newMemRegistrationRepo() *memRegistrationRepo {
	return &memRegistrationRepo{regs: make(map[string]entities.Registration)}
}

// put inserts a registration directly, bypassing the uniqueness check. Used
// by tests to simulate a writer outside the lock scope. It takes no lock:
// its only legal call site is a createHook, which already runs inside
// Create's critical section.
func (r *memRegistrationRepo) put(reg entities.Registration) {
	r.regs[reg.ID] = reg
}

func (r *memRegistrationRepo) hasActiveLocked(eventID, roleID, userID string) bool {
	for _, reg := range r.regs {
		if reg.EventID == eventID && reg.RoleID == roleID && reg.UserID == userID && reg.Status == domain.StatusActive {
			return true
		}
	}
	return false
}

func (r *memRegistrationRepo) Create(_ context.Context, reg *entities.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createHook != nil {
		if err := r.createHook(reg); err != nil {
			return err
		}
	}
	if r.hasActiveLocked(reg.EventID, reg.RoleID, reg.UserID) {
		return domain.ErrDuplicateRegistration
	}
	now := time.Now().UTC()
	reg.CreatedAt = now
	reg.UpdatedAt = now
	r.regs[reg.ID] = *reg
	return nil
}

func (r *memRegistrationRepo) FindActive(_ context.Context, eventID, roleID, userID string) (*entities.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range r.regs {
		if reg.EventID == eventID && reg.RoleID == roleID && reg.UserID == userID && reg.Status == domain.StatusActive {
			found := reg
			return &found, nil
		}
	}
	return nil, domain.ErrNotRegistered
}

func (r *memRegistrationRepo) FindActiveByRole(_ context.Context, eventID, roleID string) ([]entities.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Registration
	for _, reg := range r.regs {
		if reg.EventID == eventID && reg.RoleID == roleID && reg.Status == domain.StatusActive {
			out = append(out, reg)
		}
	}
	return out, nil
}

func (r *memRegistrationRepo) CountActive(_ context.Context, eventID, roleID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, reg := range r.regs {
		if reg.EventID == eventID && reg.RoleID == roleID && reg.Status == domain.StatusActive {
			n++
		}
	}
	return n, nil
}

func (r *memRegistrationRepo) CountActiveByEvent(_ context.Context, eventID string) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, reg := range r.regs {
		if reg.EventID == eventID && reg.Status == domain.StatusActive {
			counts[reg.RoleID]++
		}
	}
	return counts, nil
}

func (r *memRegistrationRepo) MarkCancelled(_ context.Context, id, removedBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regs[id]
	if !ok || reg.Status != domain.StatusActive {
		return domain.ErrNotRegistered
	}
	reg.Status = domain.StatusCancelled
	reg.RemovedBy = removedBy
	reg.CancelledAt = time.Now().UTC()
	reg.UpdatedAt = reg.CancelledAt
	r.regs[id] = reg
	return nil
}

func (r *memRegistrationRepo) UpdateRoleID(_ context.Context, id, toRoleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.regs[id]
	if !ok || reg.Status != domain.StatusActive {
		return domain.ErrNotRegistered
	}
	if r.hasActiveLocked(reg.EventID, toRoleID, reg.UserID) {
		return domain.ErrDuplicateRegistration
	}
	reg.RoleID = toRoleID
	reg.UpdatedAt = time.Now().UTC()
	r.regs[id] = reg
	return nil
}
