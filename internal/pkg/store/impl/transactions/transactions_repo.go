package transactions

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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type TransactionRepository struct {
	repo interfaces.DocumentStore[models.Transaction]
}

func NewTransactionRepository(client *mongodb.MongoClient) *TransactionRepository {
	collection := client.Database.Collection(consts.TransactionCollection)
	return &TransactionRepository{repo: repository.NewMongoRepository[models.Transaction](collection)}
}

func NewTransactionRepositoryWithInterface(repo interfaces.DocumentStore[models.Transaction]) *TransactionRepository {
	return &TransactionRepository{repo: repo}
}

func (tr *TransactionRepository) Insert(ctx context.Context, txn *models.Transaction) error {
	if txn.ID.IsZero() {
		txn.ID = primitive.NewObjectID()
	}
	if _, err := tr.repo.Create(ctx, txn); err != nil {
		logger.CtxError(ctx, "Error inserting transaction", err, zap.String("reference_id", txn.ReferenceID))
		return err
	}
	return nil
}

func (tr *TransactionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error) {
	txn, err := tr.repo.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			logger.CtxWarn(ctx, "No transaction found for id", zap.String("id", id.Hex()))
			return nil, custom.NewNotFoundError(log_messages.TransactionNotFound)
		}
		logger.CtxError(ctx, "Error finding transaction by id", err, zap.String("id", id.Hex()))
		return nil, err
	}
	return &txn, nil
}

func (tr *TransactionRepository) List(ctx context.Context, filter models.TransactionFilter, page models.Page) ([]models.Transaction, int64, error) {
	query := bson.M{}
	if filter.User != nil {
		query["user"] = *filter.User
	}
	if filter.Loan != nil {
		query["loan"] = *filter.Loan
	}

	total, err := tr.repo.CountDocuments(ctx, query)
	if err != nil {
		logger.CtxError(ctx, "Error counting transactions", err)
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "transactionDate", Value: -1}})
	if page.Limit > 0 {
		opts.SetSkip(page.Skip).SetLimit(page.Limit)
	}
	txns, err := tr.repo.Find(ctx, query, opts)
	if err != nil {
		logger.CtxError(ctx, "Error listing transactions", err)
		return nil, 0, err
	}
	return txns, total, nil
}

func (tr *TransactionRepository) Update(ctx context.Context, txn *models.Transaction) error {
	txn.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"amount":    txn.Amount,
		"type":      txn.Type,
		"method":    txn.Method,
		"status":    txn.Status,
		"updatedAt": txn.UpdatedAt,
	}}
	result, err := tr.repo.UpdateOne(ctx, bson.M{"_id": txn.ID}, update)
	if err != nil {
		logger.CtxError(ctx, "Error updating transaction", err, zap.String("id", txn.ID.Hex()))
		return err
	}
	if result.MatchedCount == 0 {
		return custom.NewNotFoundError(log_messages.TransactionNotFound)
	}
	return nil
}

func (tr *TransactionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := tr.repo.Delete(ctx, bson.M{"_id": id})
	if err != nil {
		logger.CtxError(ctx, "Error deleting transaction", err, zap.String("id", id.Hex()))
		return err
	}
	if deleted == 0 {
		return custom.NewNotFoundError(log_messages.TransactionNotFound)
	}
	return nil
}
