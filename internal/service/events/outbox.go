package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"easyloan/internal/pkg/log_messages"
	"easyloan/internal/pkg/logger"
	"easyloan/internal/pkg/otel"
	"easyloan/internal/pkg/store/models"
	"easyloan/internal/pkg/utils/worker"
	"easyloan/internal/service/interfaces"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const defaultPublishTimeout = 15 * time.Second

// TaskSubmitter is satisfied by worker.WorkerPool. Submit reports false when the task was not queued.
type TaskSubmitter interface {
	Submit(task worker.Task) bool
}

// Outbox persists loan events next to the business write and publishes them
// to Kafka, then notifies the affected user over Pub/Sub.
type Outbox struct {
	repo           interfaces.LoanEventRepositoryInterface
	producer       interfaces.KafkaProducerInterface
	notifier       interfaces.PubSubPublisherInterface
	pool           TaskSubmitter
	publishTimeout time.Duration
	now            func() time.Time
}

// NewOutbox wires the dispatcher. notifier may be nil when no Pub/Sub topic is configured.
func NewOutbox(
	repo interfaces.LoanEventRepositoryInterface,
	producer interfaces.KafkaProducerInterface,
	notifier interfaces.PubSubPublisherInterface,
	pool TaskSubmitter,
) *Outbox {
	return &Outbox{
		repo:           repo,
		producer:       producer,
		notifier:       notifier,
		pool:           pool,
		publishTimeout: defaultPublishTimeout,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (o *Outbox) Record(ctx context.Context, event *models.LoanEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = o.now()
	}
	if err := o.repo.Insert(ctx, event); err != nil {
		return fmt.Errorf("recording %s event: %w", event.EventType, err)
	}
	return nil
}

// Dispatch hands committed events to the worker pool. The request context may
// be cancelled once the response is written, so publishing runs detached from it.
// When the pool is saturated the event stays pending in the store for RetryPendingEvents.
func (o *Outbox) Dispatch(ctx context.Context, events ...models.LoanEvent) {
	detached := context.WithoutCancel(ctx)
	for _, event := range events {
		event := event
		queued := o.pool.Submit(func() {
			publishCtx, cancel := context.WithTimeout(detached, o.publishTimeout)
			defer cancel()
			_ = o.Publish(publishCtx, event)
		})
		if !queued {
			logger.CtxWarn(ctx, log_messages.EventLeftPending,
				zap.String("event_id", event.ID.Hex()),
				zap.String("event_type", event.EventType))
		}
	}
}

// Publish sends one event to Kafka and marks it published. Events that fail
// stay pending for RetryPendingEvents.
func (o *Outbox) Publish(ctx context.Context, event models.LoanEvent) (err error) {
	ctx, span := otel.StartSpan(ctx, "outbox.publish",
		attribute.String("loan_event.id", event.ID.Hex()),
		attribute.String("loan_event.type", event.EventType))
	defer func() { otel.EndSpan(span, err) }()

	fields := []zap.Field{
		zap.String("event_id", event.ID.Hex()),
		zap.String("event_type", event.EventType),
		zap.String("loan_id", event.Loan.Hex()),
	}

	body, err := json.Marshal(event)
	if err != nil {
		logger.CtxError(ctx, fmt.Sprintf(log_messages.ErrorMarshallingMessage, err), err, fields...)
		return err
	}

	if err := o.producer.Publish(ctx, event.Loan.Hex(), body); err != nil {
		logger.CtxError(ctx, log_messages.ErrorPublishingLoanEvent, err, fields...)
		if incErr := o.repo.IncrementAttempts(ctx, event.ID); incErr != nil {
			logger.CtxError(ctx, "failed to count publish attempt", incErr, fields...)
		}
		return err
	}

	if err := o.repo.MarkPublished(ctx, event.ID, o.now()); err != nil {
		// published but still flagged pending; a retry would send it twice
		logger.CtxError(ctx, log_messages.ErrorMarkingEventSent, err, fields...)
		return err
	}
	logger.CtxInfo(ctx, "loan event published", fields...)

	o.notify(ctx, event)
	return nil
}

func (o *Outbox) notify(ctx context.Context, event models.LoanEvent) {
	if o.notifier == nil {
		return
	}
	notification, ok := notificationFor(event)
	if !ok {
		return
	}
	msgID, err := o.notifier.Notify(ctx, notification)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorSendingNotification, err,
			zap.String("event_id", event.ID.Hex()),
			zap.String("user_id", notification.UserID))
		return
	}
	logger.CtxDebug(ctx, "user notification published", zap.String("pubsub_msg_id", msgID))
}
