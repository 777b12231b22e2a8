package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

type testLoan struct {
	ID     primitive.ObjectID `bson:"_id"`
	Amount float64            `bson:"amount"`
	Status string             `bson:"status"`
}

func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewMongoRepository[testLoan](mt.Coll)

		res, err := repo.Create(ctx, testLoan{ID: primitive.NewObjectID(), Amount: 100})

		require.NoError(mt, err)
		assert.NotNil(mt, res.InsertedID)
	})

	mt.Run("find one decodes", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "amount", Value: 5000.0},
			{Key: "status", Value: "active"},
		}))
		repo := NewMongoRepository[testLoan](mt.Coll)

		loan, err := repo.FindOne(ctx, bson.M{"_id": id})

		require.NoError(mt, err)
		assert.Equal(mt, id, loan.ID)
		assert.Equal(mt, 5000.0, loan.Amount)
	})

	mt.Run("find one not found", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewMongoRepository[testLoan](mt.Coll)

		_, err := repo.FindOne(ctx, bson.M{})

		assert.True(mt, errors.Is(err, mongo.ErrNoDocuments))
	})

	mt.Run("find returns every document", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "status", Value: "pending"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "status", Value: "active"}},
		))
		repo := NewMongoRepository[testLoan](mt.Coll)

		loans, err := repo.Find(ctx, bson.M{})

		require.NoError(mt, err)
		require.Len(mt, loans, 2)
		assert.Equal(mt, "active", loans[1].Status)
	})

	mt.Run("find with empty result is not nil", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		repo := NewMongoRepository[testLoan](mt.Coll)

		loans, err := repo.Find(ctx, bson.M{})

		require.NoError(mt, err)
		assert.NotNil(mt, loans)
		assert.Empty(mt, loans)
	})

	mt.Run("update one reports matches", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))
		repo := NewMongoRepository[testLoan](mt.Coll)

		res, err := repo.UpdateOne(ctx, bson.M{"_id": primitive.NewObjectID()}, bson.M{"$set": bson.M{"status": "active"}})

		require.NoError(mt, err)
		assert.Equal(mt, int64(1), res.MatchedCount)
	})

	mt.Run("delete returns count", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		repo := NewMongoRepository[testLoan](mt.Coll)

		deleted, err := repo.Delete(ctx, bson.M{"_id": primitive.NewObjectID()})

		require.NoError(mt, err)
		assert.Equal(mt, int64(1), deleted)
	})

	mt.Run("delete surfaces write errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "dup"}))
		repo := NewMongoRepository[testLoan](mt.Coll)

		_, err := repo.Delete(ctx, bson.M{})

		assert.Error(mt, err)
	})

	mt.Run("aggregate all", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "active"}, {Key: "count", Value: int64(3)}},
		))
		repo := NewMongoRepository[testLoan](mt.Coll)

		var out []struct {
			Status string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		err := repo.AggregateAll(ctx, mongo.Pipeline{}, &out)

		require.NoError(mt, err)
		require.Len(mt, out, 1)
		assert.Equal(mt, int64(3), out[0].Count)
	})
}
