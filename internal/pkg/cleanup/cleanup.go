package cleanup

import (
	"context"
	"net/http"
	"time"

	"easyloan/internal/pkg/db/mongo"
	"easyloan/internal/pkg/db/redis"
	"easyloan/internal/pkg/gcs"
	"easyloan/internal/pkg/kafka"
	"easyloan/internal/pkg/logger"
	"easyloan/internal/pkg/pubsub"
	"easyloan/internal/pkg/utils/worker"
)

const (
	mongoDisconnectTimeout = 5 * time.Second
	serverShutdownTimeout  = 8 * time.Second
)

// Resources are released in dependency order: stop accepting requests, drain
// the worker pool, then close what the workers publish to.
type Resources struct {
	Server        *http.Server
	WorkerPool    *worker.WorkerPool
	KafkaProducer *kafka.KafkaProducer
	PubSub        *pubsub.PubSubClient
	GCS           *gcs.GCSClient
	Mongo         *mongo.MongoClient
	Redis         *redis.RedisClient
	OtelShutdown  func(context.Context) error
}

func CleanupResources(ctx context.Context, r Resources) {
	logger.CtxInfo(ctx, "Cleanup started")

	cleanupHTTPServer(ctx, r.Server)
	if r.WorkerPool != nil {
		r.WorkerPool.Stop()
		logger.CtxInfo(ctx, "Worker pool drained")
	}
	cleanupKafkaResource(ctx, r.KafkaProducer)
	if r.PubSub != nil {
		r.PubSub.Close()
	}
	if r.GCS != nil {
		r.GCS.Close(ctx)
	}
	cleanupMongoResource(ctx, r.Mongo)
	cleanupRedisResource(ctx, r.Redis)
	if r.OtelShutdown != nil {
		if err := r.OtelShutdown(ctx); err != nil {
			logger.CtxError(ctx, "Failed to shutdown tracer provider", err)
		}
	}

	logger.CtxInfo(ctx, "Cleanup completed")
}

func cleanupKafkaResource(ctx context.Context, kafkaProducer *kafka.KafkaProducer) {
	if kafkaProducer == nil {
		return
	}
	if err := kafkaProducer.Close(); err != nil {
		logger.CtxError(ctx, "Failed to close Kafka producer", err)
	} else {
		logger.CtxInfo(ctx, "Kafka producer closed successfully")
	}
}

func cleanupMongoResource(ctx context.Context, mongoClient *mongo.MongoClient) {
	if mongoClient == nil || mongoClient.Client == nil {
		return
	}
	mongoCtx, cancel := context.WithTimeout(ctx, mongoDisconnectTimeout)
	defer cancel()
	if err := mongoClient.Client.Disconnect(mongoCtx); err != nil {
		logger.CtxError(mongoCtx, "Failed to disconnect MongoDB client", err)
	} else {
		logger.CtxInfo(mongoCtx, "MongoDB client disconnected successfully")
	}
}

func cleanupRedisResource(ctx context.Context, redisClient *redis.RedisClient) {
	if redisClient == nil || redisClient.Client == nil {
		return
	}
	if err := redis.Disconnect(redisClient.Client); err != nil {
		logger.CtxError(ctx, "Failed to close Redis client", err)
	} else {
		logger.CtxInfo(ctx, "Redis client closed successfully")
	}
}

func cleanupHTTPServer(ctx context.Context, server *http.Server) {
	if server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, serverShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.CtxError(ctx, "Failed to shutdown HTTP server", err)
	} else {
		logger.CtxInfo(ctx, "HTTP server shutdown successfully")
	}
}
