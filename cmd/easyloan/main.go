package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"easyloan/internal/app"
	"easyloan/internal/app/router"
	"easyloan/internal/pkg/cleanup"
	"easyloan/internal/pkg/config"
	mongodb "easyloan/internal/pkg/db/mongo"
	redisdb "easyloan/internal/pkg/db/redis"
	"easyloan/internal/pkg/gcs"
	"easyloan/internal/pkg/kafka"
	"easyloan/internal/pkg/lock"
	"easyloan/internal/pkg/log_messages"
	"easyloan/internal/pkg/logger"
	"easyloan/internal/pkg/otel"
	"easyloan/internal/pkg/pubsub"
	"easyloan/internal/pkg/store/impl/events"
	"easyloan/internal/pkg/store/impl/loans"
	"easyloan/internal/pkg/store/impl/repayments"
	"easyloan/internal/pkg/store/impl/settings"
	"easyloan/internal/pkg/store/impl/transactions"
	"easyloan/internal/pkg/store/impl/users"
	"easyloan/internal/pkg/store/repository"
	"easyloan/internal/pkg/utils/worker"
	"easyloan/internal/service/disbursement"
	eventsvc "easyloan/internal/service/events"
	"easyloan/internal/service/interfaces"
	"easyloan/internal/service/ledger"
	"easyloan/internal/service/lending"
	settingsvc "easyloan/internal/service/settings"

	gcppubsub "cloud.google.com/go/pubsub"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadFromConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Init(cfg.Logging.LogLevel, cfg.Server.ServiceName); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	res := cleanup.Resources{}

	res.OtelShutdown, err = otel.Setup(ctx, cfg.Server.ServiceName, cfg.Otel.CollectorURL)
	if err != nil {
		logger.CtxError(ctx, "Error setting up OTLP", err)
	}

	res.Mongo, err = mongodb.ConnectToMongoDB(ctx, cfg.Mongo)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	res.Redis, err = redisdb.ConnectToRedis(ctx, cfg.Redis, nil)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	res.KafkaProducer, err = kafka.NewKafkaProducer(cfg.Kafka)
	if err != nil {
		log.Fatalf("Failed to create Kafka producer: %v", err)
	}

	var notifier interfaces.PubSubPublisherInterface
	if cfg.PubSub.NotificationTopic != "" {
		res.PubSub, err = pubsub.NewPubSubClient(ctx, cfg.PubSub.ProjectID, cfg.PubSub.NotificationTopic, gcppubsub.NewClient)
		if err != nil {
			log.Fatalf("%s: %v", log_messages.ErrorPubSubClientCreation, err)
		}
		notifier = res.PubSub
		logger.Info("Pub/Sub notification publisher created", zap.String("topic", cfg.PubSub.NotificationTopic))
	}

	var uploader app.FileUploader
	if cfg.GCS.BucketName != "" {
		res.GCS, err = gcs.NewGCSClient(ctx, cfg.GCS.BucketName)
		if err != nil {
			log.Fatalf("Failed to create GCS client: %v", err)
		}
		uploader = res.GCS
	}

	res.WorkerPool = worker.NewWorkerPool(cfg.Worker.PoolSize)

	services := buildServices(cfg, res, notifier)
	services.Uploader = uploader

	engine := router.SetupRouter(cfg, services)
	res.Server = startHTTPServer(ctx, cfg.Server.Port, engine)
	logger.Info("easyloan started", zap.Int("port", cfg.Server.Port))

	waitForShutdownSignal()
	cleanup.CleanupResources(ctx, res)
}

func buildServices(cfg *config.AppConfig, res cleanup.Resources, notifier interfaces.PubSubPublisherInterface) router.Services {
	loanRepo := loans.NewLoanRepository(res.Mongo)
	repaymentRepo := repayments.NewRepaymentRepository(res.Mongo)
	transactionRepo := transactions.NewTransactionRepository(res.Mongo)
	settingsRepo := settings.NewSettingsRepository(res.Mongo)
	userRepo := users.NewUserRepository(res.Mongo)
	eventRepo := events.NewLoanEventRepository(res.Mongo)

	txRunner := mongodb.NewTxRunner(res.Mongo.Client)
	outbox := eventsvc.NewOutbox(eventRepo, res.KafkaProducer, notifier, res.WorkerPool)
	loanLock := lock.NewLoanLock(repository.NewRedisStoreAdapter(res.Redis.Client))

	settingsService := settingsvc.NewSettingsService(settingsRepo, cfg.Lending)

	return router.Services{
		Loans: lending.NewLoanService(loanRepo, repaymentRepo, userRepo, settingsService, txRunner, outbox,
			cfg.Lending.DefaultLockoutDays),
		Repayments:   ledger.NewLedgerService(loanRepo, repaymentRepo, userRepo, txRunner, outbox, loanLock, cfg.Lending),
		Transactions: disbursement.NewTransactionService(transactionRepo, loanRepo, userRepo, txRunner, outbox),
		Settings:     settingsService,
		EventRetry:   eventsvc.NewRetryService(eventRepo, outbox, cfg.Kafka),
	}
}

func startHTTPServer(ctx context.Context, port int, engine http.Handler) *http.Server {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.CtxError(ctx, "Failed to start server", err)
		}
	}()

	return srv
}

func waitForShutdownSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}
