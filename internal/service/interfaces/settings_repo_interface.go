package interfaces

import (
	"context"

	"easyloan/internal/pkg/store/models"
)

type SettingsRepositoryInterface interface {
	Get(ctx context.Context) (*models.Settings, error)
	Create(ctx context.Context, settings *models.Settings) error
	Update(ctx context.Context, settings *models.Settings) error
}

// SettingsProvider yields the lending policy in force, stored or configured.
type SettingsProvider interface {
	Effective(ctx context.Context) (models.Settings, error)
}
