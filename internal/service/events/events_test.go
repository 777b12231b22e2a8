package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"easyloan/internal/pkg/config"
	"easyloan/internal/pkg/consts"
	"easyloan/internal/pkg/log_messages"
	"easyloan/internal/pkg/pubsub"
	"easyloan/internal/pkg/store/models"
	"easyloan/internal/pkg/utils/worker"
	"easyloan/internal/service/servicetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type inlinePool struct{}

func (inlinePool) Submit(task worker.Task) bool {
	task()
	return true
}

type fullPool struct{}

func (fullPool) Submit(worker.Task) bool { return false }

var fixedNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestOutbox(repo *servicetest.MockEventRepo, producer *servicetest.MockKafkaProducer, notifier *servicetest.MockPubSubPublisher) *Outbox {
	o := NewOutbox(repo, producer, notifier, inlinePool{})
	o.now = func() time.Time { return fixedNow }
	return o
}

func sampleEvent(eventType string) models.LoanEvent {
	user := primitive.NewObjectID()
	loan := &models.Loan{ID: primitive.NewObjectID(), LoanID: "LOAN-ABC", User: &user}
	event := ForLoan(eventType, loan, map[string]any{"to": "active"})
	event.ID = primitive.NewObjectID()
	return event
}

func TestCommit(t *testing.T) {
	ctx := context.Background()

	t.Run("records inside the transaction and dispatches after", func(t *testing.T) {
		tx := &servicetest.TxRunner{}
		outbox := new(servicetest.MockOutbox)
		outbox.On("Record", ctx, mock.Anything).Return(nil).Twice()
		outbox.On("Dispatch", ctx, mock.Anything).Return()

		err := Commit(ctx, tx, outbox, func(context.Context) ([]models.LoanEvent, error) {
			return []models.LoanEvent{sampleEvent(consts.EventRepaymentRecorded), sampleEvent(consts.EventLoanCompleted)}, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, tx.Calls)
		assert.Equal(t, []string{consts.EventRepaymentRecorded, consts.EventLoanCompleted}, outbox.EventTypes())
	})

	t.Run("failed write dispatches nothing", func(t *testing.T) {
		outbox := new(servicetest.MockOutbox)
		boom := errors.New("write conflict")

		err := Commit(ctx, &servicetest.TxRunner{}, outbox, func(context.Context) ([]models.LoanEvent, error) {
			return nil, boom
		})

		assert.ErrorIs(t, err, boom)
		outbox.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	})

	t.Run("failed record aborts", func(t *testing.T) {
		outbox := new(servicetest.MockOutbox)
		outbox.On("Record", ctx, mock.Anything).Return(errors.New("insert failed"))

		err := Commit(ctx, &servicetest.TxRunner{}, outbox, func(context.Context) ([]models.LoanEvent, error) {
			return []models.LoanEvent{sampleEvent(consts.EventLoanApplied)}, nil
		})

		assert.Error(t, err)
		outbox.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	})
}

func TestOutbox_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes keyed by loan and notifies the owner", func(t *testing.T) {
		event := sampleEvent(consts.EventLoanDisbursed)
		repo := new(servicetest.MockEventRepo)
		producer := new(servicetest.MockKafkaProducer)
		notifier := new(servicetest.MockPubSubPublisher)

		producer.On("Publish", ctx, event.Loan.Hex(), mock.MatchedBy(func(body []byte) bool {
			var decoded map[string]any
			return json.Unmarshal(body, &decoded) == nil && decoded["eventType"] == consts.EventLoanDisbursed
		})).Return(nil)
		repo.On("MarkPublished", ctx, event.ID, fixedNow).Return(nil)
		notifier.On("Notify", ctx, mock.MatchedBy(func(n pubsub.UserNotification) bool {
			return n.UserID == event.User.Hex() && n.Type == consts.NotificationTypeLoan && n.Message != ""
		})).Return("msg-1", nil)

		err := newTestOutbox(repo, producer, notifier).Publish(ctx, event)

		assert.NoError(t, err)
		repo.AssertExpectations(t)
		producer.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("kafka failure counts the attempt and skips the notification", func(t *testing.T) {
		event := sampleEvent(consts.EventLoanApplied)
		repo := new(servicetest.MockEventRepo)
		producer := new(servicetest.MockKafkaProducer)
		notifier := new(servicetest.MockPubSubPublisher)

		producer.On("Publish", ctx, mock.Anything, mock.Anything).Return(errors.New("broker down"))
		repo.On("IncrementAttempts", ctx, event.ID).Return(nil)

		err := newTestOutbox(repo, producer, notifier).Publish(ctx, event)

		assert.Error(t, err)
		repo.AssertNotCalled(t, "MarkPublished", mock.Anything, mock.Anything, mock.Anything)
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})

	t.Run("notification failure does not fail the publish", func(t *testing.T) {
		event := sampleEvent(consts.EventLoanApplied)
		repo := new(servicetest.MockEventRepo)
		producer := new(servicetest.MockKafkaProducer)
		notifier := new(servicetest.MockPubSubPublisher)

		producer.On("Publish", ctx, mock.Anything, mock.Anything).Return(nil)
		repo.On("MarkPublished", ctx, event.ID, fixedNow).Return(nil)
		notifier.On("Notify", ctx, mock.Anything).Return("", errors.New("topic gone"))

		assert.NoError(t, newTestOutbox(repo, producer, notifier).Publish(ctx, event))
	})

	t.Run("offer events notify nobody", func(t *testing.T) {
		loan := &models.Loan{ID: primitive.NewObjectID(), IsOffer: true}
		event := ForLoan(consts.EventLoanOfferCreated, loan, nil)
		repo := new(servicetest.MockEventRepo)
		producer := new(servicetest.MockKafkaProducer)
		notifier := new(servicetest.MockPubSubPublisher)

		producer.On("Publish", ctx, mock.Anything, mock.Anything).Return(nil)
		repo.On("MarkPublished", ctx, mock.Anything, fixedNow).Return(nil)

		assert.NoError(t, newTestOutbox(repo, producer, notifier).Publish(ctx, event))
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})
}

func TestOutbox_DispatchOnWorkerPool(t *testing.T) {
	pool := worker.NewWorkerPool(2)
	event := sampleEvent(consts.EventLoanCompleted)
	repo := new(servicetest.MockEventRepo)
	producer := new(servicetest.MockKafkaProducer)

	producer.On("Publish", mock.Anything, event.Loan.Hex(), mock.Anything).Return(nil)
	repo.On("MarkPublished", mock.Anything, event.ID, mock.Anything).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	NewOutbox(repo, producer, nil, pool).Dispatch(ctx, event)
	cancel()
	pool.Stop()

	producer.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestOutbox_DispatchWithSaturatedPool(t *testing.T) {
	event := sampleEvent(consts.EventLoanCompleted)
	repo := new(servicetest.MockEventRepo)
	producer := new(servicetest.MockKafkaProducer)

	assert.NotPanics(t, func() {
		NewOutbox(repo, producer, nil, fullPool{}).Dispatch(context.Background(), event)
	})

	producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "MarkPublished", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "IncrementAttempts", mock.Anything, mock.Anything)
}

func TestNotificationFor(t *testing.T) {
	t.Run("defaulted loans warn", func(t *testing.T) {
		event := sampleEvent(consts.EventLoanStatusChanged)
		event.Payload = map[string]any{"to": string(consts.LoanStatusDefaulted)}

		n, ok := notificationFor(event)

		require.True(t, ok)
		assert.Equal(t, consts.NotificationTypeWarning, n.Type)
		assert.Contains(t, n.Message, "defaulted")
	})

	t.Run("repayments reference the repayment", func(t *testing.T) {
		repaymentID := primitive.NewObjectID().Hex()
		event := sampleEvent(consts.EventRepaymentRecorded)
		event.Payload = map[string]any{"repaymentId": repaymentID, "amountPaid": 500.0}

		n, ok := notificationFor(event)

		require.True(t, ok)
		assert.Equal(t, consts.NotificationRefRepayment, n.RefModel)
		assert.Equal(t, repaymentID, n.RefID)
	})

	t.Run("transaction events are not user facing", func(t *testing.T) {
		_, ok := notificationFor(sampleEvent(consts.EventTransactionCreated))
		assert.False(t, ok)
	})
}

type stubPublisher struct {
	fail map[primitive.ObjectID]bool
}

func (s stubPublisher) Publish(_ context.Context, event models.LoanEvent) error {
	if s.fail[event.ID] {
		return errors.New("broker down")
	}
	return nil
}

func TestRetryService_RetryPendingEvents(t *testing.T) {
	ctx := context.Background()
	cfg := config.KafkaConfig{RetryAfterSeconds: 60, RetryBatchSize: 50}

	newService := func(repo *servicetest.MockEventRepo, pub eventPublisher) *RetryService {
		s := NewRetryService(repo, pub, cfg)
		s.now = func() time.Time { return fixedNow }
		return s
	}

	t.Run("nothing pending", func(t *testing.T) {
		repo := new(servicetest.MockEventRepo)
		repo.On("ListUnpublished", ctx, fixedNow.Add(-time.Minute), int64(50)).Return([]models.LoanEvent{}, nil)

		resp, err := newService(repo, stubPublisher{}).RetryPendingEvents(ctx)

		require.NoError(t, err)
		assert.Equal(t, log_messages.NoPendingEvents, resp.Message)
		assert.Empty(t, resp.SuccessIDs)
	})

	t.Run("splits successes and failures", func(t *testing.T) {
		ok, bad := sampleEvent(consts.EventLoanApplied), sampleEvent(consts.EventLoanDisbursed)
		repo := new(servicetest.MockEventRepo)
		repo.On("ListUnpublished", ctx, mock.Anything, int64(50)).Return([]models.LoanEvent{ok, bad}, nil)

		resp, err := newService(repo, stubPublisher{fail: map[primitive.ObjectID]bool{bad.ID: true}}).RetryPendingEvents(ctx)

		assert.Error(t, err)
		assert.Equal(t, []string{ok.ID.Hex()}, resp.SuccessIDs)
		assert.Equal(t, []string{bad.ID.Hex()}, resp.FailedIDs)
	})

	t.Run("listing fails", func(t *testing.T) {
		repo := new(servicetest.MockEventRepo)
		repo.On("ListUnpublished", ctx, mock.Anything, mock.Anything).Return([]models.LoanEvent(nil), errors.New("timeout"))

		_, err := newService(repo, stubPublisher{}).RetryPendingEvents(ctx)

		assert.Error(t, err)
	})
}
