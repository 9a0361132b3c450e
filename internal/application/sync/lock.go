package sync

import (
	"context"
	gosync "sync"

	"github.com/syncbridge/backend/internal/domain/integration"
)

// SyncLock guards reconciliation passes so at most one runs at a time.
// Scheduled ticks and manual triggers share the same lock; a request that
// arrives while the lock is held gets ErrSyncInProgress and is never
// queued.
//
// MutexSyncLock is sufficient for single-process deployments. Multi-worker
// deployments must use a shared lease instead (see cache.RedisSyncLock) so
// the at-most-one-concurrent-sync guarantee holds across processes.
type SyncLock interface {
	// TryAcquire attempts to take the lock without blocking. On success it
	// returns a release function that must be called when the pass ends.
	// If the lock is held it returns integration.ErrSyncInProgress.
	TryAcquire(ctx context.Context) (release func(), err error)
}

// MutexSyncLock is an in-process SyncLock backed by a mutex
type MutexSyncLock struct {
	mu gosync.Mutex
}

// NewMutexSyncLock creates an in-process sync lock
func NewMutexSyncLock() *MutexSyncLock {
	return &MutexSyncLock{}
}

// TryAcquire implements SyncLock
func (l *MutexSyncLock) TryAcquire(_ context.Context) (func(), error) {
	if !l.mu.TryLock() {
		return nil, integration.ErrSyncInProgress
	}
	return l.mu.Unlock, nil
}

var _ SyncLock = (*MutexSyncLock)(nil)
