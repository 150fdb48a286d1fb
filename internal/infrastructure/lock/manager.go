// Package lock implements the in-process named lock manager behind the
// output.Locker port. Locks are keyed by arbitrary strings; waiters queue
// FIFO and acquisition is handed off directly to the oldest waiter on
// release, so contenders for one key run strictly serially in arrival order
// while distinct keys proceed fully in parallel.
//
// The manager has no cross-process visibility: two OS processes holding the
// same key string do not serialize against each other. Multi-instance
// deployments need a distributed Locker implementation plugged in at the
// port; the storage-level uniqueness constraint remains the backstop either
// way.
package lock

import (
	"context"
	"sync"
	"time"

	"servcore/internal/domain"
	"servcore/internal/ports/output"
)

var _ output.Locker = (*Manager)(nil)

type lockState struct {
	held    bool
	waiters []chan struct{}
}

// Manager is an in-process named lock manager. The zero value is not usable;
// call NewManager.
type Manager struct {
	mu    sync.Mutex
	locks map[string]*lockState

	acquisitions uint64
	totalWait    time.Duration
}

func NewManager() *Manager {
	return &Manager{locks: make(map[string]*lockState)}
}

// WithLock runs fn while holding the exclusive lock for key. The lock is
// released on every return path, including a panic inside fn. A waiter that
// exceeds timeout fails with domain.ErrLockTimeout; ctx cancellation while
// waiting returns ctx's error. Neither affects the current holder or the
// other waiters.
func (m *Manager) WithLock(ctx context.Context, key string, timeout time.Duration, fn func() error) error {
	if err := m.acquire(ctx, key, timeout); err != nil {
		return err
	}
	defer m.release(key)
	return fn()
}

func (m *Manager) acquire(ctx context.Context, key string, timeout time.Duration) error {
	start := time.Now()

	m.mu.Lock()
	st := m.locks[key]
	if st == nil {
		st = &lockState{}
		m.locks[key] = st
	}
	if !st.held {
		st.held = true
		m.recordAcquisitionLocked(start)
		m.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	st.waiters = append(st.waiters, ch)
	m.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ch:
		m.mu.Lock()
		m.recordAcquisitionLocked(start)
		m.mu.Unlock()
		return nil
	case <-timer.C:
		return m.withdraw(key, ch, domain.ErrLockTimeout)
	case <-ctx.Done():
		return m.withdraw(key, ch, ctx.Err())
	}
}

// withdraw removes a waiter that gave up. The hand-off in releaseLocked may
// have fired between the select resolving and us reacquiring mu; in that
// case the waiter briefly owns the lock and must pass it straight on.
func (m *Manager) withdraw(key string, ch chan struct{}, cause error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-ch:
		m.releaseLocked(key)
		return cause
	default:
	}

	st := m.locks[key]
	if st == nil {
		return cause
	}
	for i, w := range st.waiters {
		if w == ch {
			st.waiters = append(st.waiters[:i], st.waiters[i+1:]...)
			break
		}
	}
	return cause
}

func (m *Manager) release(key string) {
	m.mu.Lock()
	m.releaseLocked(key)
	m.mu.Unlock()
}

func (m *Manager) releaseLocked(key string) {
	st := m.locks[key]
	if st == nil {
		return
	}
	if len(st.waiters) > 0 {
		next := st.waiters[0]
		st.waiters = st.waiters[1:]
		close(next) // hand-off: the lock stays held, ownership moves to next
		return
	}
	st.held = false
	delete(m.locks, key)
}

func (m *Manager) recordAcquisitionLocked(start time.Time) {
	m.acquisitions++
	m.totalWait += time.Since(start)
}

// Stats is a snapshot of the manager's counters. Operational visibility
// only; never consulted for correctness.
type Stats struct {
	ActiveLocks       int           `json:"active_locks"`
	TotalAcquisitions uint64        `json:"total_acquisitions"`
	AverageWait       time.Duration `json:"average_wait_ns"`
}

func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Stats{
		ActiveLocks:       len(m.locks),
		TotalAcquisitions: m.acquisitions,
	}
	if m.acquisitions > 0 {
		s.AverageWait = m.totalWait / time.Duration(m.acquisitions)
	}
	return s
}
