package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a held lock.
type UnlockFunc func(ctx context.Context) error

// Locker serializes provisioning runs. The workflow mutates global host state
// (installed programs, the environment directory), so two concurrent runs on
// one host would corrupt each other; a run acquires the lock before its first
// step and releases it when the report is written.
type Locker interface {
	// Lock attempts to acquire the lock for the given key. It returns
	// domain.ErrLockHeld (possibly wrapped) when another run holds it.
	// The returned UnlockFunc MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
