package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/syncbridge/backend/internal/domain/integration"
)

// SyncRunner is the reconciliation entry point the scheduler drives
type SyncRunner interface {
	SyncAll(ctx context.Context) (*integration.FullSyncReport, error)
}

// SyncSchedulerConfig holds configuration for the periodic sync scheduler
type SyncSchedulerConfig struct {
	// Interval is how often a full reconciliation pass is triggered
	Interval time.Duration

	// PassTimeout bounds one full pass. A pass that overruns is cancelled
	// through its context rather than piling up behind the next tick.
	PassTimeout time.Duration
}

// DefaultSyncSchedulerConfig returns default scheduler configuration
func DefaultSyncSchedulerConfig() SyncSchedulerConfig {
	return SyncSchedulerConfig{
		Interval:    30 * time.Minute,
		PassTimeout: 10 * time.Minute,
	}
}

// Validate checks the configuration
func (c SyncSchedulerConfig) Validate() error {
	if c.Interval <= 0 {
		return errors.New("sync scheduler interval must be positive")
	}
	if c.PassTimeout <= 0 {
		return errors.New("sync scheduler pass timeout must be positive")
	}
	return nil
}

// SyncScheduler triggers full reconciliation passes on a fixed interval.
// Concurrency control lives in the sync lock, not here: a tick that lands
// while a pass is still running (scheduled or manually triggered) gets
// ErrSyncInProgress back and is skipped, never queued.
type SyncScheduler struct {
	config SyncSchedulerConfig
	runner SyncRunner
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSyncScheduler creates a new periodic sync scheduler
func NewSyncScheduler(config SyncSchedulerConfig, runner SyncRunner, logger *zap.Logger) (*SyncScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &SyncScheduler{
		config: config,
		runner: runner,
		logger: logger,
	}, nil
}

// Start starts the scheduler loop
func (s *SyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Sync scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("pass_timeout", s.config.PassTimeout),
	)

	return nil
}

// Stop stops the scheduler and waits for an in-flight pass to finish,
// bounded by the supplied context
func (s *SyncScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Sync scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SyncScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runPass(ctx)
		}
	}
}

func (s *SyncScheduler) runPass(ctx context.Context) {
	passCtx, cancel := context.WithTimeout(ctx, s.config.PassTimeout)
	defer cancel()

	started := time.Now()
	report, err := s.runner.SyncAll(passCtx)

	switch {
	case errors.Is(err, integration.ErrSyncInProgress):
		s.logger.Info("Skipping scheduled sync, another pass is running")
	case err != nil:
		s.logger.Error("Scheduled sync pass failed",
			zap.Error(err),
			zap.Duration("elapsed", time.Since(started)),
		)
	default:
		total, succeeded, failed := 0, 0, 0
		for _, r := range report.Reports {
			total += r.Total
			succeeded += r.Succeeded
			failed += r.Failed
		}
		s.logger.Info("Scheduled sync pass completed",
			zap.Int("total", total),
			zap.Int("succeeded", succeeded),
			zap.Int("failed", failed),
			zap.Duration("elapsed", time.Since(started)),
		)
	}
}
