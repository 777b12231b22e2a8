package interfaces

import (
	"context"
	"time"

	"easyloan/internal/pkg/store/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RepaymentRepositoryInterface never returns soft-deleted repayments.
type RepaymentRepositoryInterface interface {
	Insert(ctx context.Context, repayment *models.Repayment) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Repayment, error)
	// IsDeleted reports whether id names a soft-deleted repayment.
	IsDeleted(ctx context.Context, id primitive.ObjectID) (bool, error)
	List(ctx context.Context, filter models.RepaymentFilter) ([]models.Repayment, error)
	TotalsByLoan(ctx context.Context, loanIDs []primitive.ObjectID) (map[primitive.ObjectID]float64, error)
	Update(ctx context.Context, repayment *models.Repayment) error
	SoftDelete(ctx context.Context, repayment *models.Repayment, at time.Time) error
}
