package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"easyloan/internal/pkg/config"
	"easyloan/internal/pkg/log_messages"
	"easyloan/internal/pkg/logger"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"
)

const (
	deliveryTimeout = 10 * time.Second
	flushTimeoutMs  = 5000
)

var errDeliveryTimeout = errors.New("timeout waiting for Kafka delivery report")

// ProducerInterface is the subset of *kafka.Producer used here.
type ProducerInterface interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Flush(timeoutMs int) int
	Close()
}

// KafkaProducer publishes loan lifecycle events keyed by loan id so each loan's
// events land on one partition in order.
type KafkaProducer struct {
	producer ProducerInterface
	topic    string
}

func NewKafkaProducer(cfg config.KafkaConfig) (*KafkaProducer, error) {
	kafkaConfig := &kafka.ConfigMap{
		"bootstrap.servers": cfg.Server,
		"security.protocol": cfg.SecurityProtocol,
		"client.id":         cfg.ClientID,
	}
	if cfg.SASLMechanism != "" {
		_ = kafkaConfig.SetKey("sasl.mechanisms", cfg.SASLMechanism)
		_ = kafkaConfig.SetKey("sasl.username", cfg.SASLUsername)
		_ = kafkaConfig.SetKey("sasl.password", cfg.SASLPassword)
	}

	producer, err := kafka.NewProducer(kafkaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	logger.Info(log_messages.KafkaProducerCreated, zap.String("topic", cfg.LoanEventsTopic))

	return NewKafkaProducerWithInterface(producer, cfg.LoanEventsTopic), nil
}

func NewKafkaProducerWithInterface(producer ProducerInterface, topic string) *KafkaProducer {
	return &KafkaProducer{producer: producer, topic: topic}
}

// Publish blocks until the broker acknowledges the message, ctx ends, or the delivery timeout passes.
func (kp *KafkaProducer) Publish(ctx context.Context, key string, msg []byte) error {
	// Buffered so a late report after timeout does not block librdkafka.
	deliveryChan := make(chan kafka.Event, 1)

	err := kp.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &kp.topic, Partition: kafka.PartitionAny},
		Key:            []byte(key),
		Value:          msg,
	}, deliveryChan)
	if err != nil {
		logger.CtxError(ctx, "Failed to produce Kafka message", err, zap.String("key", key))
		return err
	}

	select {
	case ev := <-deliveryChan:
		m, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected event type %T", ev)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("delivery failed: %w", m.TopicPartition.Error)
		}
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(deliveryTimeout):
		return errDeliveryTimeout
	}

	return nil
}

func (kp *KafkaProducer) Close() error {
	kp.producer.Flush(flushTimeoutMs)
	kp.producer.Close()
	return nil
}
