package interfaces

import (
	"context"
	"time"

	"easyloan/internal/pkg/store/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LoanEventRepositoryInterface interface {
	Insert(ctx context.Context, event *models.LoanEvent) error
	ListUnpublished(ctx context.Context, createdBefore time.Time, limit int64) ([]models.LoanEvent, error)
	MarkPublished(ctx context.Context, id primitive.ObjectID, at time.Time) error
	IncrementAttempts(ctx context.Context, id primitive.ObjectID) error
}
