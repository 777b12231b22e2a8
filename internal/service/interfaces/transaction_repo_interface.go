package interfaces

import (
	"context"

	"easyloan/internal/pkg/store/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TransactionRepositoryInterface interface {
	Insert(ctx context.Context, txn *models.Transaction) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error)
	List(ctx context.Context, filter models.TransactionFilter, page models.Page) ([]models.Transaction, int64, error)
	Update(ctx context.Context, txn *models.Transaction) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
