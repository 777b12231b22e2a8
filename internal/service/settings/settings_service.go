package settings

import (
	"context"
	"slices"
	"time"

	"easyloan/internal/pkg/config"
	"easyloan/internal/pkg/log_messages"
	"easyloan/internal/pkg/logger"
	custom "easyloan/internal/pkg/models"
	"easyloan/internal/pkg/store/models"
	"easyloan/internal/pkg/utils"
	"easyloan/internal/service/interfaces"

	"go.uber.org/zap"
)

// Values used for fields omitted when settings are first created.
const (
	DefaultInterestRate       = 5.0
	DefaultMaxLoanAmount      = 10000000.0
	DefaultMinLoanAmount      = 10000.0
	DefaultCurrency           = "NGN"
	DefaultGracePeriodDays    = 7
	DefaultLatePaymentPenalty = 2.5
)

var DefaultLoanTermOptions = []int{6, 12, 24, 36}

type SettingsService struct {
	repo     interfaces.SettingsRepositoryInterface
	fallback config.LendingConfig
	now      func() time.Time
}

func NewSettingsService(repo interfaces.SettingsRepositoryInterface, fallback config.LendingConfig) *SettingsService {
	return &SettingsService{
		repo:     repo,
		fallback: fallback,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	return s.repo.Get(ctx)
}

// Effective returns the stored settings, or the configured lending defaults
// when none have been created yet.
func (s *SettingsService) Effective(ctx context.Context) (models.Settings, error) {
	stored, err := s.repo.Get(ctx)
	if err == nil {
		return *stored, nil
	}
	if !utils.IsKind(err, custom.KindNotFound) {
		return models.Settings{}, err
	}

	logger.CtxDebug(ctx, "no settings stored, using configured lending defaults")
	return models.Settings{
		InterestRate:       s.fallback.DefaultInterestRate,
		LoanTermOptions:    slices.Clone(s.fallback.DefaultTermOptions),
		MaxLoanAmount:      s.fallback.DefaultMaxAmount,
		MinLoanAmount:      s.fallback.DefaultMinAmount,
		Currency:           DefaultCurrency,
		GracePeriodDays:    DefaultGracePeriodDays,
		LatePaymentPenalty: DefaultLatePaymentPenalty,
	}, nil
}

func (s *SettingsService) Create(ctx context.Context, caller custom.Caller, req custom.SettingsRequest) (*models.Settings, error) {
	if !caller.IsAdmin() {
		return nil, custom.NewForbiddenError(log_messages.AdminOnly)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	now := s.now()
	settings := &models.Settings{
		InterestRate:       DefaultInterestRate,
		LoanTermOptions:    slices.Clone(DefaultLoanTermOptions),
		MaxLoanAmount:      DefaultMaxLoanAmount,
		MinLoanAmount:      DefaultMinLoanAmount,
		Currency:           DefaultCurrency,
		GracePeriodDays:    DefaultGracePeriodDays,
		LatePaymentPenalty: DefaultLatePaymentPenalty,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := apply(settings, req); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, settings); err != nil {
		return nil, err
	}
	logger.CtxInfo(ctx, "settings created", zap.String("currency", settings.Currency))
	return settings, nil
}

func (s *SettingsService) Update(ctx context.Context, caller custom.Caller, req custom.SettingsRequest) (*models.Settings, error) {
	if !caller.IsAdmin() {
		return nil, custom.NewForbiddenError(log_messages.AdminOnly)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := apply(settings, req); err != nil {
		return nil, err
	}
	settings.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, settings); err != nil {
		return nil, err
	}
	logger.CtxInfo(ctx, "settings updated")
	return settings, nil
}

func apply(settings *models.Settings, req custom.SettingsRequest) error {
	if req.InterestRate != nil {
		settings.InterestRate = *req.InterestRate
	}
	if req.LoanTermOptions != nil {
		settings.LoanTermOptions = slices.Clone(req.LoanTermOptions)
	}
	if req.MaxLoanAmount != nil {
		settings.MaxLoanAmount = *req.MaxLoanAmount
	}
	if req.MinLoanAmount != nil {
		settings.MinLoanAmount = *req.MinLoanAmount
	}
	if req.Currency != nil {
		settings.Currency = *req.Currency
	}
	if req.GracePeriodDays != nil {
		settings.GracePeriodDays = *req.GracePeriodDays
	}
	if req.LatePaymentPenalty != nil {
		settings.LatePaymentPenalty = *req.LatePaymentPenalty
	}

	if settings.MinLoanAmount > settings.MaxLoanAmount {
		return custom.NewValidationError(log_messages.InvalidSettings)
	}
	return nil
}
