package events

import (
	"context"
	"time"

	"easyloan/internal/pkg/consts"
	mongodb "easyloan/internal/pkg/db/mongo"
	"easyloan/internal/pkg/logger"
	"easyloan/internal/pkg/store/models"
	"easyloan/internal/pkg/store/repository"
	"easyloan/internal/service/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type LoanEventRepository struct {
	repo interfaces.DocumentStore[models.LoanEvent]
}

func NewLoanEventRepository(client *mongodb.MongoClient) *LoanEventRepository {
	collection := client.Database.Collection(consts.LoanEventCollection)
	return &LoanEventRepository{repo: repository.NewMongoRepository[models.LoanEvent](collection)}
}

func NewLoanEventRepositoryWithInterface(repo interfaces.DocumentStore[models.LoanEvent]) *LoanEventRepository {
	return &LoanEventRepository{repo: repo}
}

func (er *LoanEventRepository) Insert(ctx context.Context, event *models.LoanEvent) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if _, err := er.repo.Create(ctx, event); err != nil {
		logger.CtxError(ctx, "Error recording loan event", err, zap.String("event_type", event.EventType))
		return err
	}
	return nil
}

// ListUnpublished returns the oldest pending events created before the cutoff.
func (er *LoanEventRepository) ListUnpublished(ctx context.Context, createdBefore time.Time, limit int64) ([]models.LoanEvent, error) {
	filter := bson.M{"published": false, "createdAt": bson.M{"$lt": createdBefore}}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}).SetLimit(limit)
	events, err := er.repo.Find(ctx, filter, opts)
	if err != nil {
		logger.CtxError(ctx, "Error listing unpublished loan events", err)
		return nil, err
	}
	return events, nil
}

func (er *LoanEventRepository) MarkPublished(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	update := bson.M{"$set": bson.M{"published": true, "publishedAt": at}}
	if _, err := er.repo.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		logger.CtxError(ctx, "Error marking loan event published", err, zap.String("id", id.Hex()))
		return err
	}
	return nil
}

func (er *LoanEventRepository) IncrementAttempts(ctx context.Context, id primitive.ObjectID) error {
	_, err := er.repo.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"attempts": 1}})
	return err
}
