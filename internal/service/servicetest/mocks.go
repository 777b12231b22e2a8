// Package servicetest holds testify mocks of the service interfaces.
package servicetest

import (
	"context"
	"time"

	"easyloan/internal/pkg/consts"
	"easyloan/internal/pkg/pubsub"
	"easyloan/internal/pkg/store/models"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockLoanRepo struct {
	mock.Mock
}

func (m *MockLoanRepo) Insert(ctx context.Context, loan *models.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// hand out a copy so the service cannot mutate the fixture between calls
	loan := *args.Get(0).(*models.Loan)
	return &loan, args.Error(1)
}

func (m *MockLoanRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Loan, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[primitive.ObjectID]models.Loan), args.Error(1)
}

func (m *MockLoanRepo) List(ctx context.Context, filter models.LoanFilter, page models.Page) ([]models.Loan, int64, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]models.Loan), args.Get(1).(int64), args.Error(2)
}

func (m *MockLoanRepo) Recent(ctx context.Context, filter models.LoanFilter, limit int64) ([]models.Loan, error) {
	args := m.Called(ctx, filter, limit)
	return args.Get(0).([]models.Loan), args.Error(1)
}

func (m *MockLoanRepo) CountByStatus(ctx context.Context, filter models.LoanFilter) (map[consts.LoanStatus]int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(map[consts.LoanStatus]int64), args.Error(1)
}

func (m *MockLoanRepo) CountByType(ctx context.Context, filter models.LoanFilter) (map[string]int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockLoanRepo) HasDefaultSince(ctx context.Context, userID primitive.ObjectID, since time.Time) (bool, error) {
	args := m.Called(ctx, userID, since)
	return args.Bool(0), args.Error(1)
}

func (m *MockLoanRepo) Update(ctx context.Context, loan *models.Loan) error {
	args := m.Called(ctx, loan)
	if args.Error(0) == nil {
		loan.Version++
	}
	return args.Error(0)
}

func (m *MockLoanRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockRepaymentRepo struct {
	mock.Mock
}

func (m *MockRepaymentRepo) Insert(ctx context.Context, repayment *models.Repayment) error {
	args := m.Called(ctx, repayment)
	return args.Error(0)
}

func (m *MockRepaymentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Repayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	repayment := *args.Get(0).(*models.Repayment)
	return &repayment, args.Error(1)
}

func (m *MockRepaymentRepo) IsDeleted(ctx context.Context, id primitive.ObjectID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepaymentRepo) List(ctx context.Context, filter models.RepaymentFilter) ([]models.Repayment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Repayment), args.Error(1)
}

func (m *MockRepaymentRepo) TotalsByLoan(ctx context.Context, loanIDs []primitive.ObjectID) (map[primitive.ObjectID]float64, error) {
	args := m.Called(ctx, loanIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[primitive.ObjectID]float64), args.Error(1)
}

func (m *MockRepaymentRepo) Update(ctx context.Context, repayment *models.Repayment) error {
	args := m.Called(ctx, repayment)
	return args.Error(0)
}

func (m *MockRepaymentRepo) SoftDelete(ctx context.Context, repayment *models.Repayment, at time.Time) error {
	args := m.Called(ctx, repayment, at)
	if args.Error(0) == nil {
		repayment.IsDeleted = true
		repayment.DeletedAt = &at
		if repayment.Status == consts.RepaymentStatusPaid {
			repayment.Status = consts.RepaymentStatusRejected
		}
	}
	return args.Error(0)
}

type MockTransactionRepo struct {
	mock.Mock
}

func (m *MockTransactionRepo) Insert(ctx context.Context, txn *models.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	txn := *args.Get(0).(*models.Transaction)
	return &txn, args.Error(1)
}

func (m *MockTransactionRepo) List(ctx context.Context, filter models.TransactionFilter, page models.Page) ([]models.Transaction, int64, error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).([]models.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepo) Update(ctx context.Context, txn *models.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSettingsRepo struct {
	mock.Mock
}

func (m *MockSettingsRepo) Get(ctx context.Context) (*models.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	settings := *args.Get(0).(*models.Settings)
	return &settings, args.Error(1)
}

func (m *MockSettingsRepo) Create(ctx context.Context, settings *models.Settings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockSettingsRepo) Update(ctx context.Context, settings *models.Settings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

type MockSettingsProvider struct {
	mock.Mock
}

func (m *MockSettingsProvider) Effective(ctx context.Context) (models.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Settings), args.Error(1)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[primitive.ObjectID]models.User), args.Error(1)
}

type MockEventRepo struct {
	mock.Mock
}

func (m *MockEventRepo) Insert(ctx context.Context, event *models.LoanEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepo) ListUnpublished(ctx context.Context, createdBefore time.Time, limit int64) ([]models.LoanEvent, error) {
	args := m.Called(ctx, createdBefore, limit)
	return args.Get(0).([]models.LoanEvent), args.Error(1)
}

func (m *MockEventRepo) MarkPublished(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockEventRepo) IncrementAttempts(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOutbox records what a service asked to publish.
type MockOutbox struct {
	mock.Mock
}

func (m *MockOutbox) Record(ctx context.Context, event *models.LoanEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockOutbox) Dispatch(ctx context.Context, events ...models.LoanEvent) {
	m.Called(ctx, events)
}

// EventTypes lists the types passed to Dispatch, in order.
func (m *MockOutbox) EventTypes() []string {
	var types []string
	for _, call := range m.Calls {
		if call.Method != "Dispatch" {
			continue
		}
		for _, event := range call.Arguments.Get(1).([]models.LoanEvent) {
			types = append(types, event.EventType)
		}
	}
	return types
}

type MockLock struct {
	mock.Mock
	Released int
}

func (m *MockLock) Acquire(ctx context.Context, loanID string, ttl time.Duration) (func(), error) {
	args := m.Called(ctx, loanID, ttl)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func() { m.Released++ }, nil
}

type MockKafkaProducer struct {
	mock.Mock
}

func (m *MockKafkaProducer) Publish(ctx context.Context, key string, msg []byte) error {
	args := m.Called(ctx, key, msg)
	return args.Error(0)
}

type MockPubSubPublisher struct {
	mock.Mock
}

func (m *MockPubSubPublisher) Notify(ctx context.Context, n pubsub.UserNotification) (string, error) {
	args := m.Called(ctx, n)
	return args.String(0), args.Error(1)
}

// TxRunner runs fn once against the caller's context and returns its error,
// standing in for a Mongo session.
type TxRunner struct {
	Calls int
}

func (r *TxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.Calls++
	return fn(ctx)
}
