package repayments

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

// RepaymentRepository hides soft-deleted documents from every read.
type RepaymentRepository struct {
	repo interfaces.DocumentStore[models.Repayment]
}

func NewRepaymentRepository(client *mongodb.MongoClient) *RepaymentRepository {
	collection := client.Database.Collection(consts.RepaymentCollection)
	return &RepaymentRepository{repo: repository.NewMongoRepository[models.Repayment](collection)}
}

func NewRepaymentRepositoryWithInterface(repo interfaces.DocumentStore[models.Repayment]) *RepaymentRepository {
	return &RepaymentRepository{repo: repo}
}

func live(filter bson.M) bson.M {
	filter["isDeleted"] = bson.M{"$ne": true}
	return filter
}

func (rr *RepaymentRepository) Insert(ctx context.Context, repayment *models.Repayment) error {
	if repayment.ID.IsZero() {
		repayment.ID = primitive.NewObjectID()
	}
	if _, err := rr.repo.Create(ctx, repayment); err != nil {
		logger.CtxError(ctx, "Error inserting repayment", err, zap.String("reference_id", repayment.ReferenceID))
		return err
	}
	return nil
}

func (rr *RepaymentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Repayment, error) {
	repayment, err := rr.repo.FindOne(ctx, live(bson.M{"_id": id}))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			logger.CtxWarn(ctx, "No repayment found for id", zap.String("id", id.Hex()))
			return nil, custom.NewNotFoundError(log_messages.RepaymentNotFound)
		}
		logger.CtxError(ctx, "Error finding repayment by id", err, zap.String("id", id.Hex()))
		return nil, err
	}
	return &repayment, nil
}

func (rr *RepaymentRepository) IsDeleted(ctx context.Context, id primitive.ObjectID) (bool, error) {
	count, err := rr.repo.CountDocuments(ctx, bson.M{"_id": id, "isDeleted": true})
	if err != nil {
		logger.CtxError(ctx, "Error checking repayment deletion", err, zap.String("id", id.Hex()))
		return false, err
	}
	return count > 0, nil
}

func (rr *RepaymentRepository) List(ctx context.Context, filter models.RepaymentFilter) ([]models.Repayment, error) {
	query := bson.M{}
	if filter.User != nil {
		query["user"] = *filter.User
	}
	if filter.Loan != nil {
		query["loan"] = *filter.Loan
	}
	opts := options.Find().SetSort(bson.D{{Key: "paymentDate", Value: -1}})
	repayments, err := rr.repo.Find(ctx, live(query), opts)
	if err != nil {
		logger.CtxError(ctx, "Error listing repayments", err)
		return nil, err
	}
	return repayments, nil
}

// TotalsByLoan sums live amountPaid per loan. Loans without repayments are absent from the map.
func (rr *RepaymentRepository) TotalsByLoan(ctx context.Context, loanIDs []primitive.ObjectID) (map[primitive.ObjectID]float64, error) {
	totals := make(map[primitive.ObjectID]float64, len(loanIDs))
	if len(loanIDs) == 0 {
		return totals, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: live(bson.M{"loan": bson.M{"$in": loanIDs}})}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$loan"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amountPaid"}}},
		}}},
	}
	var rows []models.LoanPaidTotal
	if err := rr.repo.AggregateAll(ctx, pipeline, &rows); err != nil {
		logger.CtxError(ctx, "Error totalling repayments", err, zap.Int("loans", len(loanIDs)))
		return nil, err
	}
	for _, row := range rows {
		totals[row.Loan] = row.Total
	}
	return totals, nil
}

func (rr *RepaymentRepository) Update(ctx context.Context, repayment *models.Repayment) error {
	repayment.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"amountPaid":    repayment.AmountPaid,
		"paymentMethod": repayment.PaymentMethod,
		"dueDate":       repayment.DueDate,
		"evidence":      repayment.Evidence,
		"status":        repayment.Status,
		"updatedAt":     repayment.UpdatedAt,
	}}
	result, err := rr.repo.UpdateOne(ctx, live(bson.M{"_id": repayment.ID}), update)
	if err != nil {
		logger.CtxError(ctx, "Error updating repayment", err, zap.String("id", repayment.ID.Hex()))
		return err
	}
	if result.MatchedCount == 0 {
		return custom.NewNotFoundError(log_messages.RepaymentNotFound)
	}
	return nil
}

// SoftDelete flags the repayment as deleted. Losing a race against another delete is a conflict.
func (rr *RepaymentRepository) SoftDelete(ctx context.Context, repayment *models.Repayment, at time.Time) error {
	set := bson.M{"isDeleted": true, "deletedAt": at, "updatedAt": at}
	if repayment.Status == consts.RepaymentStatusPaid {
		set["status"] = consts.RepaymentStatusRejected
	}
	result, err := rr.repo.UpdateOne(ctx, live(bson.M{"_id": repayment.ID}), bson.M{"$set": set})
	if err != nil {
		logger.CtxError(ctx, "Error soft deleting repayment", err, zap.String("id", repayment.ID.Hex()))
		return err
	}
	if result.MatchedCount == 0 {
		logger.CtxWarn(ctx, "Repayment already deleted", zap.String("id", repayment.ID.Hex()))
		return custom.NewConflictError(log_messages.RepaymentAlreadyDeleted)
	}

	repayment.IsDeleted = true
	repayment.DeletedAt = &at
	repayment.UpdatedAt = at
	if status, ok := set["status"].(consts.RepaymentStatus); ok {
		repayment.Status = status
	}
	return nil
}
