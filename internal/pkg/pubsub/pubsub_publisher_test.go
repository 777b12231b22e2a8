package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub"
	"github.com/stretchr/testify/assert"
	"google.golang.org/api/option"
)

type mockPubSubResult struct {
	msgID string
	err   error
}

func (m *mockPubSubResult) Get(ctx context.Context) (string, error) {
	return m.msgID, m.err
}

type mockPubSubTopic struct {
	result PubSubResult
	last   *gcppubsub.Message
}

func (m *mockPubSubTopic) Publish(ctx context.Context, msg *gcppubsub.Message) PubSubResult {
	m.last = msg
	return m.result
}

func TestNewPubSubClient_FactoryError(t *testing.T) {
	factory := func(ctx context.Context, projectID string, opts ...option.ClientOption) (*gcppubsub.Client, error) {
		return nil, errors.New("factory failed")
	}

	client, err := NewPubSubClient(context.Background(), "proj", "notifications", factory)

	assert.Nil(t, client)
	assert.EqualError(t, err, "factory failed")
}

func TestNotify(t *testing.T) {
	ctx := context.Background()
	notification := UserNotification{
		UserID:    "65f1c0ffee0000000000abcd",
		Message:   "Your loan has been approved",
		Type:      "loan",
		RefModel:  "Loan",
		RefID:     "LOAN-1",
		EventType: "loan.status_changed",
		CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	t.Run("publishes json with routing attributes", func(t *testing.T) {
		topic := &mockPubSubTopic{result: &mockPubSubResult{msgID: "123"}}
		ps := &PubSubClient{Topic: topic}

		id, err := ps.Notify(ctx, notification)

		assert.NoError(t, err)
		assert.Equal(t, "123", id)
		var decoded UserNotification
		assert.NoError(t, json.Unmarshal(topic.last.Data, &decoded))
		assert.Equal(t, notification, decoded)
		assert.Equal(t, map[string]string{
			AttrEventType:        "loan.status_changed",
			AttrNotificationType: "loan",
			AttrUserID:           "65f1c0ffee0000000000abcd",
		}, topic.last.Attributes)
	})

	t.Run("publish failure", func(t *testing.T) {
		ps := &PubSubClient{Topic: &mockPubSubTopic{result: &mockPubSubResult{err: errors.New("unavailable")}}}

		_, err := ps.Notify(ctx, notification)

		assert.ErrorContains(t, err, "failed to publish message: unavailable")
	})
}

func TestClose_NilClient(t *testing.T) {
	assert.NotPanics(t, func() { (&PubSubClient{}).Close() })
}
