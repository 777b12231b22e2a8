package repository

import (
	"context"

	"easyloan/internal/service/interfaces"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository[T any] struct {
	collection interfaces.MongoRepositoryInterface
}

func NewMongoRepository[T any](collection interfaces.MongoRepositoryInterface) *MongoRepository[T] {
	return &MongoRepository[T]{collection: collection}
}

func (r *MongoRepository[T]) Create(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error) {
	return r.collection.InsertOne(ctx, document)
}

// FindOne returns mongo.ErrNoDocuments when nothing matches.
func (r *MongoRepository[T]) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (T, error) {
	var result T
	if err := r.collection.FindOne(ctx, filter, opts...).Decode(&result); err != nil {
		return result, err
	}
	return result, nil
}

func (r *MongoRepository[T]) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	results := make([]T, 0)
	for cursor.Next(ctx) {
		var entity T
		if err := cursor.Decode(&entity); err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, cursor.Err()
}

// UpdateOne applies a full update document, operators included.
func (r *MongoRepository[T]) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error) {
	return r.collection.UpdateOne(ctx, filter, update)
}

func (r *MongoRepository[T]) UpdateMany(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error) {
	return r.collection.UpdateMany(ctx, filter, update)
}

func (r *MongoRepository[T]) Delete(ctx context.Context, filter interface{}) (int64, error) {
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *MongoRepository[T]) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return r.collection.CountDocuments(ctx, filter)
}

func (r *MongoRepository[T]) AggregateAll(ctx context.Context, pipeline interface{}, result interface{}) error {
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()
	return cursor.All(ctx, result)
}
