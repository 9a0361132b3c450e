package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/syncbridge/backend/internal/domain/integration"
)

type countingRunner struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (r *countingRunner) SyncAll(ctx context.Context) (*integration.FullSyncReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &integration.FullSyncReport{}, nil
}

func (r *countingRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func TestSyncSchedulerConfig_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, DefaultSyncSchedulerConfig().Validate())
	})

	t.Run("rejects non-positive interval", func(t *testing.T) {
		cfg := DefaultSyncSchedulerConfig()
		cfg.Interval = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects non-positive pass timeout", func(t *testing.T) {
		cfg := DefaultSyncSchedulerConfig()
		cfg.PassTimeout = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestSyncScheduler_RunsOnInterval(t *testing.T) {
	runner := &countingRunner{}
	sched, err := NewSyncScheduler(SyncSchedulerConfig{
		Interval:    10 * time.Millisecond,
		PassTimeout: time.Second,
	}, runner, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, sched.Start(context.Background()))

	assert.Eventually(t, func() bool {
		return runner.callCount() >= 2
	}, time.Second, 5*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, sched.Stop(stopCtx))
}

func TestSyncScheduler_SkipsWhenSyncInProgress(t *testing.T) {
	runner := &countingRunner{err: integration.ErrSyncInProgress}
	sched, err := NewSyncScheduler(SyncSchedulerConfig{
		Interval:    10 * time.Millisecond,
		PassTimeout: time.Second,
	}, runner, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, sched.Start(context.Background()))

	// The skipped ticks must not crash the loop or stop future ticks.
	assert.Eventually(t, func() bool {
		return runner.callCount() >= 2
	}, time.Second, 5*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, sched.Stop(stopCtx))
}

func TestSyncScheduler_StartStopLifecycle(t *testing.T) {
	runner := &countingRunner{}
	sched, err := NewSyncScheduler(SyncSchedulerConfig{
		Interval:    time.Hour,
		PassTimeout: time.Second,
	}, runner, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, sched.Start(context.Background()))
	// Double start is a no-op.
	require.NoError(t, sched.Start(context.Background()))

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, sched.Stop(stopCtx))
	// Double stop is a no-op.
	require.NoError(t, sched.Stop(stopCtx))

	assert.Equal(t, 0, runner.callCount())
}

func TestNewSyncScheduler_RejectsInvalidConfig(t *testing.T) {
	_, err := NewSyncScheduler(SyncSchedulerConfig{}, &countingRunner{}, zap.NewNop())
	assert.Error(t, err)
}
