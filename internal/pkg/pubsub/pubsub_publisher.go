package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"easyloan/internal/pkg/log_messages"
	"easyloan/internal/pkg/logger"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Attribute keys let subscribers filter without decoding the body.
const (
	AttrEventType        = "eventType"
	AttrNotificationType = "notificationType"
	AttrUserID           = "userId"
)

type PubSubResult interface {
	Get(ctx context.Context) (string, error)
}

type PubSubTopic interface {
	Publish(ctx context.Context, msg *pubsub.Message) PubSubResult
}

// PubSubClient pushes user notifications to the notification topic.
type PubSubClient struct {
	Client *pubsub.Client
	Topic  PubSubTopic
}

type topicAdapter struct {
	topic *pubsub.Topic
}

func (a topicAdapter) Publish(ctx context.Context, msg *pubsub.Message) PubSubResult {
	return a.topic.Publish(ctx, msg)
}

type GCPClientFactory func(ctx context.Context, projectID string, opts ...option.ClientOption) (*pubsub.Client, error)

func NewPubSubClient(ctx context.Context, projectID, topicID string, factory GCPClientFactory) (*PubSubClient, error) {
	client, err := factory(ctx, projectID)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorPubSubClientCreation, err, zap.String("project_id", projectID))
		return nil, err
	}

	topic := client.Topic(topicID)
	if topic == nil {
		return nil, fmt.Errorf(log_messages.TopicDoesNotExists, topicID)
	}

	return &PubSubClient{Client: client, Topic: topicAdapter{topic: topic}}, nil
}

func (p *PubSubClient) Close() {
	if p.Client == nil {
		return
	}
	if err := p.Client.Close(); err != nil {
		logger.Error("failed to close pubsub client", err)
	}
}

// Notify publishes n as JSON and waits for the server-assigned message id.
func (p *PubSubClient) Notify(ctx context.Context, n UserNotification) (string, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return "", fmt.Errorf(log_messages.ErrorMarshallingMessage, err)
	}

	msg := &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			AttrEventType:        n.EventType,
			AttrNotificationType: n.Type,
			AttrUserID:           n.UserID,
		},
	}
	messageID, err := p.Topic.Publish(ctx, msg).Get(ctx)
	if err != nil {
		logger.CtxError(ctx, "failed to publish user notification", err,
			zap.String("user_id", n.UserID),
			zap.String("event_type", n.EventType))
		return "", fmt.Errorf(log_messages.ErrorInMessagePublishing, err)
	}

	return messageID, nil
}
