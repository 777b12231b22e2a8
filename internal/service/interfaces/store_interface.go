package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DocumentStore is the typed view of one collection, implemented by repository.MongoRepository.
type DocumentStore[T any] interface {
	Create(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (T, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]T, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error)
	UpdateMany(ctx context.Context, filter interface{}, update interface{}) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, filter interface{}) (int64, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	AggregateAll(ctx context.Context, pipeline interface{}, result interface{}) error
}
