package settings

import (
	"context"
	"errors"
	"time"

	"easyloan/internal/pkg/consts"
	mongodb "easyloan/internal/pkg/db/mongo"
	"easyloan/internal/pkg/log_messages"
	"easyloan/internal/pkg/logger"
	custom "easyloan/internal/pkg/models"
	"easyloan/internal/pkg/store/models"
	"easyloan/internal/pkg/store/repository"
	"easyloan/internal/service/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SettingsRepository stores a single document keyed by consts.SettingsSingletonID.
// The fixed _id lets the unique index on _id reject a second create.
type SettingsRepository struct {
	repo interfaces.DocumentStore[models.Settings]
}

func NewSettingsRepository(client *mongodb.MongoClient) *SettingsRepository {
	collection := client.Database.Collection(consts.SettingsCollection)
	return &SettingsRepository{repo: repository.NewMongoRepository[models.Settings](collection)}
}

func NewSettingsRepositoryWithInterface(repo interfaces.DocumentStore[models.Settings]) *SettingsRepository {
	return &SettingsRepository{repo: repo}
}

func (sr *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	settings, err := sr.repo.FindOne(ctx, bson.M{"_id": consts.SettingsSingletonID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			logger.CtxWarn(ctx, "System settings not initialized")
			return nil, custom.NewNotFoundError(log_messages.SettingsNotFound)
		}
		logger.CtxError(ctx, "Error reading system settings", err)
		return nil, err
	}
	return &settings, nil
}

func (sr *SettingsRepository) Create(ctx context.Context, settings *models.Settings) error {
	now := time.Now().UTC()
	settings.ID = consts.SettingsSingletonID
	settings.CreatedAt = now
	settings.UpdatedAt = now

	if _, err := sr.repo.Create(ctx, settings); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			logger.CtxWarn(ctx, "System settings already exist")
			return custom.NewConflictError(log_messages.SettingsAlreadyExist)
		}
		logger.CtxError(ctx, "Error creating system settings", err)
		return err
	}
	return nil
}

func (sr *SettingsRepository) Update(ctx context.Context, settings *models.Settings) error {
	settings.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"interestRate":       settings.InterestRate,
		"loanTermOptions":    settings.LoanTermOptions,
		"maxLoanAmount":      settings.MaxLoanAmount,
		"minLoanAmount":      settings.MinLoanAmount,
		"currency":           settings.Currency,
		"gracePeriodDays":    settings.GracePeriodDays,
		"latePaymentPenalty": settings.LatePaymentPenalty,
		"updatedAt":          settings.UpdatedAt,
	}}
	result, err := sr.repo.UpdateOne(ctx, bson.M{"_id": consts.SettingsSingletonID}, update)
	if err != nil {
		logger.CtxError(ctx, "Error updating system settings", err)
		return err
	}
	if result.MatchedCount == 0 {
		return custom.NewNotFoundError(log_messages.SettingsNotFound)
	}
	return nil
}
