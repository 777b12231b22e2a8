package interfaces

import (
	"context"
	"time"

	"easyloan/internal/pkg/consts"
	"easyloan/internal/pkg/store/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LoanRepositoryInterface interface {
	Insert(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Loan, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Loan, error)
	List(ctx context.Context, filter models.LoanFilter, page models.Page) ([]models.Loan, int64, error)
	Recent(ctx context.Context, filter models.LoanFilter, limit int64) ([]models.Loan, error)
	CountByStatus(ctx context.Context, filter models.LoanFilter) (map[consts.LoanStatus]int64, error)
	CountByType(ctx context.Context, filter models.LoanFilter) (map[string]int64, error)
	HasDefaultSince(ctx context.Context, userID primitive.ObjectID, since time.Time) (bool, error)
	// Update writes every mutable field guarded by the loan's version and bumps it.
	Update(ctx context.Context, loan *models.Loan) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
