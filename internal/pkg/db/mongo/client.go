package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"easyloan/internal/pkg/config"
	"easyloan/internal/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type MongoClient struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func ConnectToMongoDB(ctx context.Context, cfg config.MongoConfig) (*MongoClient, error) {
	return connectWithDialer(ctx, cfg, driverDialer{})
}

func connectWithDialer(ctx context.Context, cfg config.MongoConfig, dialer Dialer) (*MongoClient, error) {
	mongoURI := buildMongoURI(cfg)
	safeURI := redactMongoURI(mongoURI)

	logger.CtxInfo(ctx, "Connecting to MongoDB",
		zap.String("uri", safeURI),
		zap.String("database", cfg.DBName),
	)

	connectTimeout := cfg.ConnectTimeout
	clientOpts := options.Client().
		ApplyURI(mongoURI).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(connectTimeout * 2).
		SetSocketTimeout(connectTimeout * 3).
		SetHeartbeatInterval(10 * time.Second).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize)

	client, err := dialer.Dial(ctx, clientOpts)
	if err != nil {
		logger.CtxError(ctx, "Failed to connect to MongoDB", err, zap.String("uri", safeURI))
		return nil, err
	}

	if err := dialer.Ping(ctx, client); err != nil {
		logger.CtxError(ctx, "MongoDB ping failed", err, zap.String("uri", safeURI))
		return nil, err
	}

	logger.CtxInfo(ctx, "Successfully connected to MongoDB",
		zap.String("uri", safeURI),
		zap.String("database", cfg.DBName),
	)

	return &MongoClient{
		Client:   client,
		Database: client.Database(cfg.DBName),
	}, nil
}

// buildMongoURI injects credentials into an SRV host; a full URI without credentials is used as is.
func buildMongoURI(cfg config.MongoConfig) string {
	if cfg.Username == "" {
		return cfg.URI
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s",
		url.QueryEscape(cfg.Username),
		url.QueryEscape(cfg.Password),
		strings.TrimPrefix(cfg.URI, "mongodb+srv://"),
	)
}

func Disconnect(client *mongo.Client) error {
	return client.Disconnect(context.Background())
}

// redactMongoURI hides username and password from a MongoDB URI
func redactMongoURI(uri string) string {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	if _, host, found := strings.Cut(rest, "@"); found {
		return scheme + "://***:***@" + host
	}
	return uri
}
