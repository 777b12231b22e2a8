package settings

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"easyloan/internal/pkg/config"
	"easyloan/internal/pkg/consts"
	custom "easyloan/internal/pkg/models"
	"easyloan/internal/pkg/store/models"
	"easyloan/internal/pkg/utils"
	"easyloan/internal/service/servicetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testNow = time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)

var lending = config.LendingConfig{
	DefaultMinAmount:    5000,
	DefaultMaxAmount:    2000000,
	DefaultTermOptions:  []int{3, 6},
	DefaultInterestRate: 9,
}

func newService() (*SettingsService, *servicetest.MockSettingsRepo) {
	repo := new(servicetest.MockSettingsRepo)
	svc := NewSettingsService(repo, lending)
	svc.now = func() time.Time { return testNow }
	return svc, repo
}

var (
	admin = custom.Caller{UserID: primitive.NewObjectID(), Role: consts.RoleAdmin}
	user  = custom.Caller{UserID: primitive.NewObjectID(), Role: consts.RoleUser}
)

func ptr[T any](v T) *T { return &v }

func TestSettingsService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("fills defaults for omitted fields", func(t *testing.T) {
		svc, repo := newService()
		repo.On("Create", ctx, mock.AnythingOfType("*models.Settings")).Return(nil)

		settings, err := svc.Create(ctx, admin, custom.SettingsRequest{InterestRate: ptr(7.5)})

		require.NoError(t, err)
		assert.Equal(t, 7.5, settings.InterestRate)
		assert.Equal(t, []int{6, 12, 24, 36}, settings.LoanTermOptions)
		assert.Equal(t, 10000000.0, settings.MaxLoanAmount)
		assert.Equal(t, 10000.0, settings.MinLoanAmount)
		assert.Equal(t, "NGN", settings.Currency)
		assert.Equal(t, 7, settings.GracePeriodDays)
		assert.Equal(t, 2.5, settings.LatePaymentPenalty)
		assert.Equal(t, testNow, settings.CreatedAt)
	})

	t.Run("second create conflicts", func(t *testing.T) {
		svc, repo := newService()
		repo.On("Create", ctx, mock.Anything).Return(custom.NewConflictError("Settings already exist. You can update them instead."))

		_, err := svc.Create(ctx, admin, custom.SettingsRequest{})

		require.Error(t, err)
		assert.Equal(t, "Settings already exist. You can update them instead.", err.Error())
		assert.True(t, utils.IsKind(err, custom.KindConflict))
	})

	t.Run("min above max is rejected", func(t *testing.T) {
		svc, repo := newService()

		_, err := svc.Create(ctx, admin, custom.SettingsRequest{MinLoanAmount: ptr(20000000.0)})

		assert.EqualError(t, err, "Minimum loan amount cannot exceed maximum loan amount")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("admins only", func(t *testing.T) {
		svc, _ := newService()
		_, err := svc.Create(ctx, user, custom.SettingsRequest{})
		assert.Equal(t, http.StatusForbidden, utils.StatusFromError(err))
	})

	t.Run("invalid currency", func(t *testing.T) {
		svc, _ := newService()
		_, err := svc.Create(ctx, admin, custom.SettingsRequest{Currency: ptr("naira")})
		assert.EqualError(t, err, "currency is invalid")
	})
}

func TestSettingsService_Update(t *testing.T) {
	ctx := context.Background()
	stored := &models.Settings{
		ID:              consts.SettingsSingletonID,
		InterestRate:    5,
		LoanTermOptions: []int{6, 12},
		MinLoanAmount:   10000,
		MaxLoanAmount:   50000,
		Currency:        "NGN",
	}

	t.Run("patches the stored document", func(t *testing.T) {
		svc, repo := newService()
		repo.On("Get", ctx).Return(stored, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(s *models.Settings) bool {
			return s.MaxLoanAmount == 90000 && s.InterestRate == 5 && s.UpdatedAt.Equal(testNow)
		})).Return(nil)

		settings, err := svc.Update(ctx, admin, custom.SettingsRequest{MaxLoanAmount: ptr(90000.0)})

		require.NoError(t, err)
		assert.Equal(t, []int{6, 12}, settings.LoanTermOptions)
		repo.AssertExpectations(t)
	})

	t.Run("lowering max below stored min fails", func(t *testing.T) {
		svc, repo := newService()
		repo.On("Get", ctx).Return(stored, nil)

		_, err := svc.Update(ctx, admin, custom.SettingsRequest{MaxLoanAmount: ptr(9000.0)})

		assert.True(t, utils.IsKind(err, custom.KindValidation))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing settings", func(t *testing.T) {
		svc, repo := newService()
		repo.On("Get", ctx).Return(nil, custom.NewNotFoundError("Settings not found. Please initialize system settings."))

		_, err := svc.Update(ctx, admin, custom.SettingsRequest{InterestRate: ptr(4.0)})

		assert.Equal(t, http.StatusNotFound, utils.StatusFromError(err))
	})

	t.Run("non positive terms are rejected", func(t *testing.T) {
		svc, _ := newService()
		_, err := svc.Update(ctx, admin, custom.SettingsRequest{LoanTermOptions: []int{12, 0}})
		assert.True(t, utils.IsKind(err, custom.KindValidation))
	})
}

func TestSettingsService_Effective(t *testing.T) {
	ctx := context.Background()

	t.Run("stored settings win", func(t *testing.T) {
		svc, repo := newService()
		repo.On("Get", ctx).Return(&models.Settings{MinLoanAmount: 1, MaxLoanAmount: 2}, nil)

		settings, err := svc.Effective(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2.0, settings.MaxLoanAmount)
	})

	t.Run("falls back to configured defaults", func(t *testing.T) {
		svc, repo := newService()
		repo.On("Get", ctx).Return(nil, custom.NewNotFoundError("Settings not found. Please initialize system settings."))

		settings, err := svc.Effective(ctx)

		require.NoError(t, err)
		assert.Equal(t, 5000.0, settings.MinLoanAmount)
		assert.Equal(t, 2000000.0, settings.MaxLoanAmount)
		assert.Equal(t, []int{3, 6}, settings.LoanTermOptions)
		assert.Equal(t, 9.0, settings.InterestRate)
	})

	t.Run("store failures surface", func(t *testing.T) {
		svc, repo := newService()
		repo.On("Get", ctx).Return(nil, errors.New("connection reset"))

		_, err := svc.Effective(ctx)

		assert.EqualError(t, err, "connection reset")
	})
}
