package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// TrialExpirer downgrades trials whose window has passed
type TrialExpirer interface {
	ExpireTrials(ctx context.Context, limit int) (int, error)
	ExpireSubscriptions(ctx context.Context, limit int) (int, error)
}

// EscrowReleaser releases held funds past their auto-release deadline
type EscrowReleaser interface {
	AutoReleaseDue(ctx context.Context, limit int) (int, error)
}

// PaymentReconciler queries the gateway for pushes that never called back
type PaymentReconciler interface {
	ReconcileStale(ctx context.Context, olderThan time.Duration, limit int) (int, error)
}

// ReservationReleaser returns expired stock holds to inventory
type ReservationReleaser interface {
	ReleaseExpired(ctx context.Context, limit int) (int, error)
}

// WebhookRetrier re-sends failed courier webhooks
type WebhookRetrier interface {
	RetryDue(ctx context.Context, limit int) (int, error)
}

// NotificationPruner deletes read notifications past retention
type NotificationPruner interface {
	Prune(ctx context.Context, days int) (int64, error)
}

// ImportRecoverer fails CSV uploads stuck in processing
type ImportRecoverer interface {
	RecoverStuck(ctx context.Context) (int, error)
}

// ImageCleaner removes uploads that never confirmed
type ImageCleaner interface {
	CleanupStalePending(ctx context.Context, limit int) (int, error)
}

// SweepExecutorConfig tunes batch sizes and windows for the sweeps
type SweepExecutorConfig struct {
	BatchLimit            int           // Rows per sweep pass
	StalePaymentAge       time.Duration // Initiated payments older than this get reconciled
	NotificationRetention int           // Days read notifications are kept
}

// DefaultSweepExecutorConfig returns default sweep tuning
func DefaultSweepExecutorConfig() SweepExecutorConfig {
	return SweepExecutorConfig{
		BatchLimit:            100,
		StalePaymentAge:       5 * time.Minute,
		NotificationRetention: 90,
	}
}

// SweepExecutor routes each job type to the application service that
// owns the sweep
type SweepExecutor struct {
	config        SweepExecutorConfig
	trials        TrialExpirer
	escrows       EscrowReleaser
	payments      PaymentReconciler
	reservations  ReservationReleaser
	webhooks      WebhookRetrier
	notifications NotificationPruner
	imports       ImportRecoverer
	images        ImageCleaner
	logger        *zap.Logger
}

// NewSweepExecutor creates a new sweep executor
func NewSweepExecutor(
	config SweepExecutorConfig,
	trials TrialExpirer,
	escrows EscrowReleaser,
	payments PaymentReconciler,
	reservations ReservationReleaser,
	webhooks WebhookRetrier,
	notifications NotificationPruner,
	imports ImportRecoverer,
	images ImageCleaner,
	logger *zap.Logger,
) *SweepExecutor {
	if config.BatchLimit <= 0 {
		config.BatchLimit = 100
	}
	if config.StalePaymentAge <= 0 {
		config.StalePaymentAge = 5 * time.Minute
	}
	if config.NotificationRetention <= 0 {
		config.NotificationRetention = 90
	}
	return &SweepExecutor{
		config:        config,
		trials:        trials,
		escrows:       escrows,
		payments:      payments,
		reservations:  reservations,
		webhooks:      webhooks,
		notifications: notifications,
		imports:       imports,
		images:        images,
		logger:        logger,
	}
}

// Execute runs one sweep job. A nil dependency makes the sweep a no-op
// so callers can wire only the subsystems they run.
func (e *SweepExecutor) Execute(ctx context.Context, job *Job) error {
	var (
		processed int
		err       error
	)

	switch job.Type {
	case JobTypeTrialExpiry:
		if e.trials == nil {
			return nil
		}
		processed, err = e.trials.ExpireTrials(ctx, e.config.BatchLimit)
	case JobTypeSubscriptionExpiry:
		if e.trials == nil {
			return nil
		}
		processed, err = e.trials.ExpireSubscriptions(ctx, e.config.BatchLimit)
	case JobTypeEscrowAutoRelease:
		if e.escrows == nil {
			return nil
		}
		processed, err = e.escrows.AutoReleaseDue(ctx, e.config.BatchLimit)
	case JobTypeReservationRelease:
		if e.reservations == nil {
			return nil
		}
		processed, err = e.reservations.ReleaseExpired(ctx, e.config.BatchLimit)
	case JobTypePaymentReconciliation:
		if e.payments == nil {
			return nil
		}
		processed, err = e.payments.ReconcileStale(ctx, e.config.StalePaymentAge, e.config.BatchLimit)
	case JobTypeWebhookRetry:
		if e.webhooks == nil {
			return nil
		}
		processed, err = e.webhooks.RetryDue(ctx, e.config.BatchLimit)
	case JobTypeNotificationPrune:
		if e.notifications == nil {
			return nil
		}
		var pruned int64
		pruned, err = e.notifications.Prune(ctx, e.config.NotificationRetention)
		processed = int(pruned)
	case JobTypeImportRecovery:
		if e.imports == nil {
			return nil
		}
		processed, err = e.imports.RecoverStuck(ctx)
	case JobTypeImageCleanup:
		if e.images == nil {
			return nil
		}
		processed, err = e.images.CleanupStalePending(ctx, e.config.BatchLimit)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidJobType, job.Type)
	}

	if err != nil {
		return err
	}

	if processed > 0 {
		e.logger.Info("Sweep pass finished",
			zap.String("job_type", string(job.Type)),
			zap.Int("processed", processed),
		)
	}
	return nil
}
