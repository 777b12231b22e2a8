package loans

import (
	"context"
	"errors"
	"testing"
	"time"

	"easyloan/internal/pkg/consts"
	custom "easyloan/internal/pkg/models"
	"easyloan/internal/pkg/store/models"
	"easyloan/internal/pkg/store/storetest"
	"easyloan/internal/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestLoanRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	id := primitive.NewObjectID()

	t.Run("found", func(t *testing.T) {
		store := new(storetest.MockStore[models.Loan])
		store.On("FindOne", ctx, bson.M{"_id": id}).Return(models.Loan{ID: id, Amount: 5000}, nil)

		loan, err := NewLoanRepositoryWithInterface(store).GetByID(ctx, id)

		assert.NoError(t, err)
		assert.Equal(t, 5000.0, loan.Amount)
	})

	t.Run("not found maps to domain error", func(t *testing.T) {
		store := new(storetest.MockStore[models.Loan])
		store.On("FindOne", ctx, bson.M{"_id": id}).Return(models.Loan{}, mongo.ErrNoDocuments)

		loan, err := NewLoanRepositoryWithInterface(store).GetByID(ctx, id)

		assert.Nil(t, loan)
		assert.True(t, utils.IsKind(err, custom.KindNotFound))
	})

	t.Run("driver error passes through", func(t *testing.T) {
		store := new(storetest.MockStore[models.Loan])
		store.On("FindOne", ctx, bson.M{"_id": id}).Return(models.Loan{}, errors.New("boom"))

		_, err := NewLoanRepositoryWithInterface(store).GetByID(ctx, id)

		assert.EqualError(t, err, "boom")
	})
}

func TestLoanRepository_List(t *testing.T) {
	ctx := context.Background()
	user := primitive.NewObjectID()
	offer := false
	filter := models.LoanFilter{User: &user, IsOffer: &offer, Status: consts.LoanStatusActive}
	expected := bson.M{"user": user, "isOffer": false, "status": consts.LoanStatusActive}

	store := new(storetest.MockStore[models.Loan])
	store.On("CountDocuments", ctx, expected).Return(int64(12), nil)
	store.On("Find", ctx, expected).Return([]models.Loan{{Amount: 1}, {Amount: 2}}, nil)

	loans, total, err := NewLoanRepositoryWithInterface(store).List(ctx, filter, models.Page{Skip: 10, Limit: 10})

	assert.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Len(t, loans, 2)
	store.AssertExpectations(t)
}

func TestLoanRepository_CountByStatus(t *testing.T) {
	ctx := context.Background()
	store := new(storetest.MockStore[models.Loan])
	store.On("AggregateAll", ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			rows := args.Get(2).(*[]models.StatusCount)
			*rows = []models.StatusCount{
				{Status: consts.LoanStatusPending, Count: 3},
				{Status: consts.LoanStatusActive, Count: 2},
			}
		}).
		Return(nil)

	counts, err := NewLoanRepositoryWithInterface(store).CountByStatus(ctx, models.LoanFilter{})

	assert.NoError(t, err)
	assert.Equal(t, int64(3), counts[consts.LoanStatusPending])
	assert.Equal(t, int64(2), counts[consts.LoanStatusActive])
	assert.Zero(t, counts[consts.LoanStatusDefaulted])
}

func TestLoanRepository_HasDefaultSince(t *testing.T) {
	ctx := context.Background()
	user := primitive.NewObjectID()
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	expected := bson.M{
		"user":        user,
		"status":      consts.LoanStatusDefaulted,
		"defaultedAt": bson.M{"$gte": since},
	}

	store := new(storetest.MockStore[models.Loan])
	store.On("CountDocuments", ctx, expected).Return(int64(1), nil).Once()

	blocked, err := NewLoanRepositoryWithInterface(store).HasDefaultSince(ctx, user, since)

	assert.NoError(t, err)
	assert.True(t, blocked)
}

func TestLoanRepository_Update(t *testing.T) {
	ctx := context.Background()
	start := time.Now().UTC()

	t.Run("bumps version on match", func(t *testing.T) {
		loan := &models.Loan{ID: primitive.NewObjectID(), Version: 4, Status: consts.LoanStatusActive, StartDate: &start}
		store := new(storetest.MockStore[models.Loan])
		store.On("UpdateOne", ctx, bson.M{"_id": loan.ID, "version": int64(4)}, mock.MatchedBy(func(update bson.M) bool {
			set := update["$set"].(bson.M)
			unset := update["$unset"].(bson.M)
			_, hasEnd := unset["endDate"]
			return set["status"] == consts.LoanStatusActive && set["startDate"] == start && hasEnd
		})).Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

		err := NewLoanRepositoryWithInterface(store).Update(ctx, loan)

		assert.NoError(t, err)
		assert.Equal(t, int64(5), loan.Version)
	})

	t.Run("stale version is a conflict", func(t *testing.T) {
		loan := &models.Loan{ID: primitive.NewObjectID(), Version: 2}
		store := new(storetest.MockStore[models.Loan])
		store.On("UpdateOne", ctx, mock.Anything, mock.Anything).Return(&mongo.UpdateResult{}, nil)

		err := NewLoanRepositoryWithInterface(store).Update(ctx, loan)

		assert.True(t, utils.IsKind(err, custom.KindConflict))
		assert.Equal(t, int64(2), loan.Version)
	})
}

func TestLoanRepository_Delete(t *testing.T) {
	ctx := context.Background()
	id := primitive.NewObjectID()

	store := new(storetest.MockStore[models.Loan])
	store.On("Delete", ctx, bson.M{"_id": id}).Return(int64(0), nil)

	err := NewLoanRepositoryWithInterface(store).Delete(ctx, id)

	assert.True(t, utils.IsKind(err, custom.KindNotFound))
}

func TestLoanRepository_GetByIDs(t *testing.T) {
	ctx := context.Background()
	first, second := primitive.NewObjectID(), primitive.NewObjectID()
	ids := []primitive.ObjectID{first, second}

	store := new(storetest.MockStore[models.Loan])
	store.On("Find", ctx, bson.M{"_id": bson.M{"$in": ids}}).Return([]models.Loan{{ID: first, Amount: 100}}, nil)

	loans, err := NewLoanRepositoryWithInterface(store).GetByIDs(ctx, ids)

	assert.NoError(t, err)
	assert.Equal(t, 100.0, loans[first].Amount)
	_, ok := loans[second]
	assert.False(t, ok)
}
