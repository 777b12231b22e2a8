package loans

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

type LoanRepository struct {
	repo interfaces.DocumentStore[models.Loan]
}

func NewLoanRepository(client *mongodb.MongoClient) *LoanRepository {
	collection := client.Database.Collection(consts.LoanCollection)
	return &LoanRepository{repo: repository.NewMongoRepository[models.Loan](collection)}
}

func NewLoanRepositoryWithInterface(repo interfaces.DocumentStore[models.Loan]) *LoanRepository {
	return &LoanRepository{repo: repo}
}

func (lr *LoanRepository) Insert(ctx context.Context, loan *models.Loan) error {
	if loan.ID.IsZero() {
		loan.ID = primitive.NewObjectID()
	}
	if _, err := lr.repo.Create(ctx, loan); err != nil {
		logger.CtxError(ctx, "Error inserting loan", err, zap.String("loan_id", loan.LoanID))
		return err
	}
	return nil
}

func (lr *LoanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Loan, error) {
	loan, err := lr.repo.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			logger.CtxWarn(ctx, "No loan found for id", zap.String("id", id.Hex()))
			return nil, custom.NewNotFoundError(log_messages.LoanNotFound)
		}
		logger.CtxError(ctx, "Error finding loan by id", err, zap.String("id", id.Hex()))
		return nil, err
	}
	return &loan, nil
}

// GetByIDs loads the given loans in one query. Missing ids are absent from the map.
func (lr *LoanRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Loan, error) {
	result := make(map[primitive.ObjectID]models.Loan, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	loans, err := lr.repo.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		logger.CtxError(ctx, "Error fetching loans by ids", err, zap.Int("count", len(ids)))
		return nil, err
	}
	for _, loan := range loans {
		result[loan.ID] = loan
	}
	return result, nil
}

func (lr *LoanRepository) List(ctx context.Context, filter models.LoanFilter, page models.Page) ([]models.Loan, int64, error) {
	query := toBSON(filter)

	total, err := lr.repo.CountDocuments(ctx, query)
	if err != nil {
		logger.CtxError(ctx, "Error counting loans", err)
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(page.Skip).
		SetLimit(page.Limit)
	loans, err := lr.repo.Find(ctx, query, opts)
	if err != nil {
		logger.CtxError(ctx, "Error listing loans", err)
		return nil, 0, err
	}
	return loans, total, nil
}

func (lr *LoanRepository) Recent(ctx context.Context, filter models.LoanFilter, limit int64) ([]models.Loan, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	loans, err := lr.repo.Find(ctx, toBSON(filter), opts)
	if err != nil {
		logger.CtxError(ctx, "Error fetching recent loans", err)
		return nil, err
	}
	return loans, nil
}

func (lr *LoanRepository) CountByStatus(ctx context.Context, filter models.LoanFilter) (map[consts.LoanStatus]int64, error) {
	var rows []models.StatusCount
	if err := lr.repo.AggregateAll(ctx, groupCountPipeline(filter, "$status"), &rows); err != nil {
		logger.CtxError(ctx, "Error aggregating loans by status", err)
		return nil, err
	}
	counts := make(map[consts.LoanStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (lr *LoanRepository) CountByType(ctx context.Context, filter models.LoanFilter) (map[string]int64, error) {
	var rows []models.TypeCount
	if err := lr.repo.AggregateAll(ctx, groupCountPipeline(filter, "$loanType"), &rows); err != nil {
		logger.CtxError(ctx, "Error aggregating loans by type", err)
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.LoanType] = row.Count
	}
	return counts, nil
}

func (lr *LoanRepository) HasDefaultSince(ctx context.Context, userID primitive.ObjectID, since time.Time) (bool, error) {
	count, err := lr.repo.CountDocuments(ctx, toBSON(models.LoanFilter{
		User:         &userID,
		Status:       consts.LoanStatusDefaulted,
		DefaultSince: &since,
	}))
	if err != nil {
		logger.CtxError(ctx, "Error checking recent defaults", err, zap.String("user", userID.Hex()))
		return false, err
	}
	return count > 0, nil
}

func (lr *LoanRepository) Update(ctx context.Context, loan *models.Loan) error {
	now := time.Now().UTC()
	filter := bson.M{"_id": loan.ID, "version": loan.Version}
	set := bson.M{
		"amount":           loan.Amount,
		"interestRate":     loan.InterestRate,
		"termMonths":       loan.TermMonths,
		"loanType":         loan.LoanType,
		"reason":           loan.Reason,
		"monthlyPayment":   loan.MonthlyPayment,
		"totalRepayable":   loan.TotalRepayable,
		"repaymentBalance": loan.RepaymentBalance,
		"status":           loan.Status,
		"documents":        loan.Documents,
		"updatedAt":        now,
	}
	unset := bson.M{}
	setOrUnset(set, unset, "startDate", loan.StartDate)
	setOrUnset(set, unset, "endDate", loan.EndDate)
	setOrUnset(set, unset, "defaultedAt", loan.DefaultedAt)
	setOrUnset(set, unset, "lastRepaymentDate", loan.LastRepaymentDate)

	update := bson.M{"$set": set, "$inc": bson.M{"version": 1}}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	result, err := lr.repo.UpdateOne(ctx, filter, update)
	if err != nil {
		logger.CtxError(ctx, "Error updating loan", err, zap.String("id", loan.ID.Hex()))
		return err
	}
	if result.MatchedCount == 0 {
		logger.CtxWarn(ctx, "Loan version mismatch", zap.String("id", loan.ID.Hex()), zap.Int64("version", loan.Version))
		return custom.NewConflictError(log_messages.ConcurrentLoanModification)
	}

	loan.Version++
	loan.UpdatedAt = now
	return nil
}

func (lr *LoanRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := lr.repo.Delete(ctx, bson.M{"_id": id})
	if err != nil {
		logger.CtxError(ctx, "Error deleting loan", err, zap.String("id", id.Hex()))
		return err
	}
	if deleted == 0 {
		return custom.NewNotFoundError(log_messages.LoanNotFound)
	}
	logger.CtxInfo(ctx, "Deleted loan", zap.String("id", id.Hex()))
	return nil
}

func toBSON(filter models.LoanFilter) bson.M {
	query := bson.M{}
	if filter.User != nil {
		query["user"] = *filter.User
	}
	if filter.IsOffer != nil {
		query["isOffer"] = *filter.IsOffer
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.LoanType != "" {
		query["loanType"] = filter.LoanType
	}
	if filter.DefaultSince != nil {
		query["defaultedAt"] = bson.M{"$gte": *filter.DefaultSince}
	}
	return query
}

func groupCountPipeline(filter models.LoanFilter, field string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: toBSON(filter)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
}

func setOrUnset(set, unset bson.M, field string, value *time.Time) {
	if value == nil {
		unset[field] = ""
		return
	}
	set[field] = *value
}
