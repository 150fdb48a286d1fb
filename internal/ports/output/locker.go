package output

import (
	"context"
	"time"
)

// Locker provides named, mutually-exclusive critical sections. The default
// implementation is in-process only: two OS processes holding the same key
// do not serialize against each other. Keeping the engine behind this narrow
// port means a distributed lock service can be substituted for multi-instance
// deployments without touching the engine.
type Locker interface {
	// WithLock runs fn while holding an exclusive lock for key, releasing it
	// on every path including panic. Waiters acquire in FIFO order. A waiter
	// that exceeds timeout fails with domain.ErrLockTimeout; ctx cancellation
	// while waiting withdraws the waiter with ctx's error. Neither disturbs
	// the current holder or other waiters.
	WithLock(ctx context.Context, key string, timeout time.Duration, fn func() error) error
}
