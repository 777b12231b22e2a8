package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Dialer opens the driver connection and checks that a primary is reachable.
type Dialer interface {
	Dial(ctx context.Context, opts *options.ClientOptions) (*mongo.Client, error)
	Ping(ctx context.Context, client *mongo.Client) error
}

type driverDialer struct{}

func (driverDialer) Dial(ctx context.Context, opts *options.ClientOptions) (*mongo.Client, error) {
	return mongo.Connect(ctx, opts)
}

func (driverDialer) Ping(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, readpref.Primary())
}
