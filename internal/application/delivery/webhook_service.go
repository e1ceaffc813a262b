package delivery

import (
	"context"
	"encoding/json"
	"time"

	"github.com/baysoko/backend/internal/domain/delivery"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultRetryLimit = 50

// WebhookDispatcher sends one signed event to the courier endpoint.
// The HMAC signing lives in the infrastructure implementation.
type WebhookDispatcher interface {
	Dispatch(ctx context.Context, eventType string, payload []byte) (statusCode int, body string, err error)
}

// WebhookNotifier emits order delivery events to the external courier
// system. Every emission is logged; failures back off exponentially
// until the attempt budget runs out.
type WebhookNotifier struct {
	logRepo    delivery.WebhookLogRepository
	dispatcher WebhookDispatcher
	logger     *zap.Logger
}

// NewWebhookNotifier creates a new webhook notifier
func NewWebhookNotifier(
	logRepo delivery.WebhookLogRepository,
	dispatcher WebhookDispatcher,
	logger *zap.Logger,
) *WebhookNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookNotifier{
		logRepo:    logRepo,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Notify queues and immediately attempts one event. Dispatch failures
// are not returned; the retry sweep picks the log up later.
func (s *WebhookNotifier) Notify(ctx context.Context, orderID uuid.UUID, eventType string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	log, err := delivery.NewWebhookLog(orderID, eventType, payload)
	if err != nil {
		return err
	}
	if err := s.logRepo.Create(ctx, log); err != nil {
		return err
	}

	s.attempt(ctx, log)
	return nil
}

// RetryDue redelivers failed webhooks whose backoff has elapsed.
// Returns how many attempts were made.
func (s *WebhookNotifier) RetryDue(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = defaultRetryLimit
	}

	due, err := s.logRepo.FindDueForRetry(ctx, time.Now(), limit)
	if err != nil {
		return 0, err
	}

	for _, log := range due {
		s.attempt(ctx, log)
	}

	if len(due) > 0 {
		s.logger.Info("webhook retries attempted", zap.Int("count", len(due)))
	}

	return len(due), nil
}

func (s *WebhookNotifier) attempt(ctx context.Context, log *delivery.WebhookLog) {
	status, body, err := s.dispatcher.Dispatch(ctx, log.EventType, log.Payload)
	if err != nil {
		log.MarkFailed(nil, err.Error())
		s.logger.Warn("webhook dispatch failed",
			zap.String("order_id", log.OrderID.String()),
			zap.String("event_type", log.EventType),
			zap.Int("attempts", log.Attempts),
			zap.Error(err))
	} else if status >= 200 && status < 300 {
		log.MarkSent(status, body)
	} else {
		log.MarkFailed(&status, body)
		s.logger.Warn("webhook rejected by receiver",
			zap.String("order_id", log.OrderID.String()),
			zap.String("event_type", log.EventType),
			zap.Int("status", status))
	}

	if err := s.logRepo.Update(ctx, log); err != nil {
		s.logger.Error("failed to persist webhook log",
			zap.String("webhook_log_id", log.ID.String()),
			zap.Error(err))
	}
}
