package interfaces

import (
	"context"

	"easyloan/internal/pkg/pubsub"
	"easyloan/internal/pkg/store/models"
)

type KafkaProducerInterface interface {
	Publish(ctx context.Context, key string, msg []byte) error
}

type PubSubPublisherInterface interface {
	Notify(ctx context.Context, n pubsub.UserNotification) (string, error)
}

// EventOutboxInterface records loan events inside a transaction and ships them once it commits.
type EventOutboxInterface interface {
	Record(ctx context.Context, event *models.LoanEvent) error
	Dispatch(ctx context.Context, events ...models.LoanEvent)
}
