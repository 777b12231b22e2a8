package transactions

import (
	"context"
	"errors"
	"testing"

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

func TestTransactionRepository_List(t *testing.T) {
	ctx := context.Background()
	user := primitive.NewObjectID()

	t.Run("filters by user", func(t *testing.T) {
		store := new(storetest.MockStore[models.Transaction])
		store.On("CountDocuments", ctx, bson.M{"user": user}).Return(int64(1), nil)
		store.On("Find", ctx, bson.M{"user": user}).Return([]models.Transaction{{User: user, Amount: 10}}, nil)

		txns, total, err := NewTransactionRepositoryWithInterface(store).List(ctx, models.TransactionFilter{User: &user}, models.Page{})

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, txns, 1)
	})

	t.Run("count failure", func(t *testing.T) {
		store := new(storetest.MockStore[models.Transaction])
		store.On("CountDocuments", ctx, bson.M{}).Return(int64(0), errors.New("timeout"))

		_, _, err := NewTransactionRepositoryWithInterface(store).List(ctx, models.TransactionFilter{}, models.Page{Limit: 10})

		assert.EqualError(t, err, "timeout")
		store.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
	})
}

func TestTransactionRepository_Update(t *testing.T) {
	ctx := context.Background()
	txn := &models.Transaction{ID: primitive.NewObjectID(), Status: consts.TransactionStatusCompleted}

	t.Run("missing document", func(t *testing.T) {
		store := new(storetest.MockStore[models.Transaction])
		store.On("UpdateOne", ctx, bson.M{"_id": txn.ID}, mock.Anything).Return(&mongo.UpdateResult{}, nil)

		err := NewTransactionRepositoryWithInterface(store).Update(ctx, txn)

		assert.True(t, utils.IsKind(err, custom.KindNotFound))
	})

	t.Run("updated", func(t *testing.T) {
		store := new(storetest.MockStore[models.Transaction])
		store.On("UpdateOne", ctx, bson.M{"_id": txn.ID}, mock.Anything).Return(&mongo.UpdateResult{MatchedCount: 1}, nil)

		err := NewTransactionRepositoryWithInterface(store).Update(ctx, txn)

		assert.NoError(t, err)
		assert.False(t, txn.UpdatedAt.IsZero())
	})
}

func TestTransactionRepository_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	id := primitive.NewObjectID()
	store := new(storetest.MockStore[models.Transaction])
	store.On("FindOne", ctx, bson.M{"_id": id}).Return(models.Transaction{}, mongo.ErrNoDocuments)

	txn, err := NewTransactionRepositoryWithInterface(store).GetByID(ctx, id)

	assert.Nil(t, txn)
	assert.True(t, utils.IsKind(err, custom.KindNotFound))
}
