package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SweepTriggerConfig holds configuration for the periodic trigger
type SweepTriggerConfig struct {
	// Interval is how often every sweep is queued
	Interval time.Duration
}

// DefaultSweepTriggerConfig returns default trigger configuration
func DefaultSweepTriggerConfig() SweepTriggerConfig {
	return SweepTriggerConfig{
		Interval: time.Minute,
	}
}

// SweepTrigger queues the full set of sweep jobs on a fixed interval
type SweepTrigger struct {
	config    SweepTriggerConfig
	scheduler *Scheduler
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSweepTrigger creates a new sweep trigger
func NewSweepTrigger(config SweepTriggerConfig, scheduler *Scheduler, logger *zap.Logger) *SweepTrigger {
	if config.Interval <= 0 {
		config.Interval = time.Minute
	}
	return &SweepTrigger{
		config:    config,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Start begins the periodic trigger loop
func (t *SweepTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.run(ctx)

	t.logger.Info("Sweep trigger started",
		zap.Duration("interval", t.config.Interval),
	)
	return nil
}

// Stop halts the trigger loop
func (t *SweepTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Sweep trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *SweepTrigger) run(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := t.scheduler.SubmitAll(); err != nil {
				t.logger.Warn("Failed to queue sweep jobs", zap.Error(err))
			}
		}
	}
}
